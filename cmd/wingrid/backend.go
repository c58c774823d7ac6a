package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/wingrid/internal/config"
	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/ipc"
	"github.com/1broseidon/wingrid/internal/logging"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tui"
	"github.com/1broseidon/wingrid/internal/windows"
)

// backend is the command-side view of wingrid. The daemon client and the
// in-process engine both satisfy it.
type backend interface {
	tui.Backend
	OpenTerminal(path string) (engine.OpenResult, error)
	OpenFileManager(path string) (engine.OpenResult, error)
	OpenApp(command, path string) (engine.OpenResult, error)
	GetDisplays() ([]platform.Display, error)
	ListPresets() (*ipc.PresetsData, error)
}

var _ backend = (*ipc.Client)(nil)

// localBackend runs operations in this process.
type localBackend struct {
	e *engine.Engine
}

func (l localBackend) ListWindows(appNames []string) ([]windows.Record, error) {
	return l.e.ListWindows(appNames), nil
}

func (l localBackend) ActivateWindow(id string) (bool, error) {
	return l.e.ActivateWindow(id), nil
}

func (l localBackend) CloseWindow(id string) (engine.CloseResult, error) {
	return l.e.CloseWindow(id), nil
}

func (l localBackend) ArrangeGrid(appNames []string, opts engine.Options) (engine.ArrangeResult, error) {
	return l.e.ArrangeGrid(appNames, opts), nil
}

func (l localBackend) OpenTerminal(path string) (engine.OpenResult, error) {
	return l.e.OpenTerminal(path), nil
}

func (l localBackend) OpenFileManager(path string) (engine.OpenResult, error) {
	return l.e.OpenFileManager(path), nil
}

func (l localBackend) OpenApp(command, path string) (engine.OpenResult, error) {
	return l.e.OpenApp(command, path), nil
}

func (l localBackend) GetDisplays() ([]platform.Display, error) {
	return l.e.GetDisplays(), nil
}

func (l localBackend) ListPresets() (*ipc.PresetsData, error) {
	return &ipc.PresetsData{Presets: l.e.GridPresets()}, nil
}

// resolveBackend returns the daemon client when the daemon answers, and
// an in-process engine otherwise or when local is set.
func resolveBackend(local bool, configPath string) (backend, error) {
	if !local {
		client := ipc.NewClient()
		if err := client.WithTimeout(500 * time.Millisecond).Ping(); err == nil {
			return client, nil
		}
	}

	res, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.NewDefault(res.Config.LogLevel)
	return localBackend{e: engine.New(res.Config, engine.Deps{Logger: logger})}, nil
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

// stringList is a repeatable string flag that also splits on commas.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
