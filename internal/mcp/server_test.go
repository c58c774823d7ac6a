package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/windows"
)

type fakeBackend struct {
	listed    [][]string
	activated []string
	closed    []string
	opened    []string
	arranged  []engine.Options
	arrangeBy [][]string
	result    engine.ArrangeResult
}

func (f *fakeBackend) ListWindows(appNames []string) []windows.Record {
	f.listed = append(f.listed, appNames)
	return []windows.Record{{ID: "0x1", Title: "zsh", AppName: "Terminal"}}
}

func (f *fakeBackend) ActivateWindow(id string) bool {
	f.activated = append(f.activated, id)
	return true
}

func (f *fakeBackend) CloseWindow(id string) engine.CloseResult {
	f.closed = append(f.closed, id)
	return engine.CloseResult{Success: true}
}

func (f *fakeBackend) OpenTerminal(path string) engine.OpenResult {
	f.opened = append(f.opened, "terminal:"+path)
	return engine.OpenResult{Success: true, WindowName: "Terminal"}
}

func (f *fakeBackend) OpenFileManager(path string) engine.OpenResult {
	f.opened = append(f.opened, "files:"+path)
	return engine.OpenResult{Success: true, WindowName: "Files", Path: "/home/u"}
}

func (f *fakeBackend) OpenApp(command, path string) engine.OpenResult {
	f.opened = append(f.opened, "app:"+command)
	return engine.OpenResult{Error: "failed to start"}
}

func (f *fakeBackend) GetDisplays() []platform.Display {
	return []platform.Display{platform.NewDisplay(1, "eDP-1", platform.Rect{Width: 1280, Height: 800}, platform.Rect{Width: 1280, Height: 800})}
}

func (f *fakeBackend) ArrangeGrid(appNames []string, opts engine.Options) engine.ArrangeResult {
	f.arranged = append(f.arranged, opts)
	f.arrangeBy = append(f.arrangeBy, appNames)
	return f.result
}

func (f *fakeBackend) GridPresets() map[string]tiling.GridPlan {
	return map[string]tiling.GridPlan{"two-up": {Columns: 2, Rows: 1}}
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(&fakeBackend{}, nil)
	if s.mcpServer == nil {
		t.Fatalf("expected mcp server to be created")
	}
}

func TestListWindowsCleansAppNames(t *testing.T) {
	fb := &fakeBackend{}
	s := NewServer(fb, nil)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{AppNames: []string{" firefox ", "", "  "}})
	if err != nil {
		t.Fatalf("handleListWindows error: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].ID != "0x1" {
		t.Fatalf("unexpected windows: %+v", out.Windows)
	}
	if len(fb.listed) != 1 || len(fb.listed[0]) != 1 || fb.listed[0][0] != "firefox" {
		t.Fatalf("backend got app names %v, want [firefox]", fb.listed)
	}
}

func TestActivateAndCloseRequireID(t *testing.T) {
	fb := &fakeBackend{}
	s := NewServer(fb, nil)
	ctx := context.Background()

	if _, _, err := s.handleActivateWindow(ctx, nil, WindowInput{ID: " "}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, _, err := s.handleCloseWindow(ctx, nil, WindowInput{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if len(fb.activated)+len(fb.closed) != 0 {
		t.Fatalf("backend should not be called for empty ids")
	}

	_, act, err := s.handleActivateWindow(ctx, nil, WindowInput{ID: "0x1"})
	if err != nil || !act.Success {
		t.Fatalf("activate = %+v, %v", act, err)
	}
	_, cl, err := s.handleCloseWindow(ctx, nil, WindowInput{ID: "0x1"})
	if err != nil || !cl.Success {
		t.Fatalf("close = %+v, %v", cl, err)
	}
}

func TestOpenTools(t *testing.T) {
	fb := &fakeBackend{}
	s := NewServer(fb, nil)
	ctx := context.Background()

	_, out, _ := s.handleOpenTerminal(ctx, nil, OpenInput{Path: "/srv"})
	if !out.Success || out.WindowName != "Terminal" {
		t.Fatalf("open_terminal = %+v", out)
	}

	_, out, _ = s.handleOpenFileManager(ctx, nil, OpenInput{})
	if out.Path != "/home/u" {
		t.Fatalf("open_file_manager path = %q", out.Path)
	}

	_, out, err := s.handleOpenApp(ctx, nil, OpenAppInput{App: "gimp"})
	if err != nil {
		t.Fatalf("open_app error: %v", err)
	}
	if out.Success || out.Error != "failed to start" {
		t.Fatalf("open_app = %+v", out)
	}

	if _, _, err := s.handleOpenApp(ctx, nil, OpenAppInput{}); err == nil {
		t.Fatalf("expected error for empty app")
	}

	want := []string{"terminal:/srv", "files:", "app:gimp"}
	if strings.Join(fb.opened, ",") != strings.Join(want, ",") {
		t.Fatalf("opened = %v, want %v", fb.opened, want)
	}
}

func TestArrangeGridPassesOptions(t *testing.T) {
	fb := &fakeBackend{result: engine.ArrangeResult{Success: true, Arranged: 4}}
	s := NewServer(fb, nil)

	_, out, err := s.handleArrangeGrid(context.Background(), nil, ArrangeGridInput{
		AppNames:     []string{"code"},
		Columns:      2,
		DisplayIndex: 1,
		Preset:       " quad ",
	})
	if err != nil {
		t.Fatalf("handleArrangeGrid error: %v", err)
	}
	if !out.Success || out.Arranged != 4 {
		t.Fatalf("output = %+v", out)
	}
	want := engine.Options{Columns: 2, DisplayIndex: 1, Preset: "quad"}
	if len(fb.arranged) != 1 || fb.arranged[0] != want {
		t.Fatalf("backend options = %+v, want %+v", fb.arranged, want)
	}
}

func TestArrangeGridReportsFailureInOutput(t *testing.T) {
	fb := &fakeBackend{result: engine.ArrangeResult{Error: "display 3 not found"}}
	s := NewServer(fb, nil)

	_, out, err := s.handleArrangeGrid(context.Background(), nil, ArrangeGridInput{DisplayIndex: 3})
	if err != nil {
		t.Fatalf("handleArrangeGrid error: %v", err)
	}
	if out.Success || out.Error != "display 3 not found" {
		t.Fatalf("output = %+v", out)
	}
}

func TestArrangeGridRejectsNegative(t *testing.T) {
	fb := &fakeBackend{}
	s := NewServer(fb, nil)

	if _, _, err := s.handleArrangeGrid(context.Background(), nil, ArrangeGridInput{Columns: -1}); err == nil {
		t.Fatalf("expected error for negative columns")
	}
	if len(fb.arranged) != 0 {
		t.Fatalf("backend should not be called")
	}
}

func TestGetDisplaysAndPresets(t *testing.T) {
	s := NewServer(&fakeBackend{}, nil)
	ctx := context.Background()

	_, d, _ := s.handleGetDisplays(ctx, nil, GetDisplaysInput{})
	if len(d.Displays) != 1 || !d.Displays[0].IsMain {
		t.Fatalf("displays = %+v", d.Displays)
	}

	_, p, _ := s.handleListPresets(ctx, nil, ListPresetsInput{})
	if p.Presets["two-up"] != (tiling.GridPlan{Columns: 2, Rows: 1}) {
		t.Fatalf("presets = %+v", p.Presets)
	}
}
