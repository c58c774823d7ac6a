// Package mcp exposes wingrid's window operations as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/windows"
)

const (
	ServerName    = "wingrid"
	ServerVersion = "0.1.0"
)

// Backend is the engine surface the tools call. *engine.Engine
// implements it.
type Backend interface {
	ListWindows(appNames []string) []windows.Record
	ActivateWindow(id string) bool
	CloseWindow(id string) engine.CloseResult
	OpenTerminal(path string) engine.OpenResult
	OpenFileManager(path string) engine.OpenResult
	OpenApp(command, path string) engine.OpenResult
	GetDisplays() []platform.Display
	ArrangeGrid(appNames []string, opts engine.Options) engine.ArrangeResult
	GridPresets() map[string]tiling.GridPlan
}

// Server is the MCP server for window discovery and arrangement.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *zap.Logger

	// arrangeMu keeps concurrent arrange_grid calls from interleaving.
	arrangeMu sync.Mutex
}

// NewServer creates a new MCP server over backend.
func NewServer(backend Backend, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open terminal and file manager windows, plus windows of any extra applications named in app_names. Each window has an id, title, application name and a per-application index.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Bring a window to the front and give it focus.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask the window manager to close a window. The application may still prompt before closing.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_terminal",
		Description: "Open a new terminal window in a directory using the first installed terminal emulator.",
	}, s.handleOpenTerminal)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_file_manager",
		Description: "Open a file manager window on a directory.",
	}, s.handleOpenFileManager)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Start an application command detached from wingrid, optionally in a working directory.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_displays",
		Description: "List displays with their full frame and usable work area (excluding panels and docks). Display indexes are 1-based.",
	}, s.handleGetDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_grid",
		Description: "Tile terminal, file manager and app_names windows into a grid. Without display_index every display gets its own grid of the windows on it; with display_index all windows move to that display.",
	}, s.handleArrangeGrid)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_presets",
		Description: "List the named grid presets usable with arrange_grid.",
	}, s.handleListPresets)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	records := s.backend.ListWindows(cleanNames(args.AppNames))
	s.logger.Debug("list_windows", zap.Int("count", len(records)))
	return nil, ListWindowsOutput{Windows: records}, nil
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActivateWindowOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return nil, ActivateWindowOutput{}, fmt.Errorf("id is required")
	}
	return nil, ActivateWindowOutput{Success: s.backend.ActivateWindow(id)}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return nil, CloseWindowOutput{}, fmt.Errorf("id is required")
	}
	return nil, CloseWindowOutput{Success: s.backend.CloseWindow(id).Success}, nil
}

func (s *Server) handleOpenTerminal(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenInput) (*mcpsdk.CallToolResult, OpenOutput, error) {
	return nil, openOutput(s.backend.OpenTerminal(args.Path)), nil
}

func (s *Server) handleOpenFileManager(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenInput) (*mcpsdk.CallToolResult, OpenOutput, error) {
	return nil, openOutput(s.backend.OpenFileManager(args.Path)), nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, OpenOutput, error) {
	app := strings.TrimSpace(args.App)
	if app == "" {
		return nil, OpenOutput{}, fmt.Errorf("app is required")
	}
	return nil, openOutput(s.backend.OpenApp(app, args.Path)), nil
}

func (s *Server) handleGetDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetDisplaysInput) (*mcpsdk.CallToolResult, GetDisplaysOutput, error) {
	return nil, GetDisplaysOutput{Displays: s.backend.GetDisplays()}, nil
}

func (s *Server) handleArrangeGrid(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeGridInput) (*mcpsdk.CallToolResult, ArrangeGridOutput, error) {
	if args.Columns < 0 || args.Rows < 0 || args.DisplayIndex < 0 {
		return nil, ArrangeGridOutput{}, fmt.Errorf("columns, rows and display_index must not be negative")
	}

	s.arrangeMu.Lock()
	res := s.backend.ArrangeGrid(cleanNames(args.AppNames), engine.Options{
		Columns:      args.Columns,
		Rows:         args.Rows,
		DisplayIndex: args.DisplayIndex,
		Preset:       strings.TrimSpace(args.Preset),
	})
	s.arrangeMu.Unlock()

	s.logger.Info("arrange_grid",
		zap.Bool("success", res.Success),
		zap.Int("arranged", res.Arranged),
		zap.String("error", res.Error),
	)
	return nil, ArrangeGridOutput{Success: res.Success, Arranged: res.Arranged, Error: res.Error}, nil
}

func (s *Server) handleListPresets(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPresetsInput) (*mcpsdk.CallToolResult, ListPresetsOutput, error) {
	return nil, ListPresetsOutput{Presets: s.backend.GridPresets()}, nil
}

func openOutput(r engine.OpenResult) OpenOutput {
	return OpenOutput{Success: r.Success, WindowName: r.WindowName, Path: r.Path, Error: r.Error}
}

// cleanNames trims names and drops empty ones.
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
