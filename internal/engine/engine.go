// Package engine is the external surface of wingrid: list, activate,
// close, open and arrange windows. It holds no state between calls.
package engine

import (
	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/apps"
	"github.com/1broseidon/wingrid/internal/config"
	"github.com/1broseidon/wingrid/internal/detect"
	"github.com/1broseidon/wingrid/internal/launcher"
	"github.com/1broseidon/wingrid/internal/metrics"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/toolexec"
	"github.com/1broseidon/wingrid/internal/windows"
)

// Result types returned to callers.
type (
	Options       = tiling.Options
	ArrangeResult = tiling.Result
	OpenResult    = launcher.Result
)

// CloseResult reports a close request. Close is fire-and-forget, so
// Success is always true.
type CloseResult struct {
	Success bool `json:"success"`
}

// Deps are the collaborators an Engine drives. Zero fields get the
// production implementations.
type Deps struct {
	Runner   toolexec.Runner
	Displays platform.Reader
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// Engine wires the enumerator, actuator, launcher and arranger.
type Engine struct {
	detector *detect.Detector
	enum     *windows.Enumerator
	act      *windows.Actuator
	launch   *launcher.Launcher
	arranger *tiling.Arranger
	displays platform.Reader
	presets  map[string]tiling.GridPlan
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// New builds an Engine from cfg.
func New(cfg *config.Config, deps Deps) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Runner == nil {
		deps.Runner = toolexec.New(deps.Logger.Named("toolexec"), deps.Metrics)
	}
	if deps.Displays == nil {
		deps.Displays = platform.NewReader()
	}

	timeouts := windows.Timeouts{List: cfg.ListTimeout(), Action: cfg.ActionTimeout()}
	classifier := apps.NewClassifier(cfg.Classifier.TerminalPrefixes, cfg.Classifier.FileManagers)
	detector := detect.New(deps.Runner, cfg.PreferredTerminal, cfg.PreferredFileManager)
	enum := windows.NewEnumerator(deps.Runner, classifier, timeouts, deps.Logger.Named("windows"))
	act := windows.NewActuator(deps.Runner, timeouts, deps.Logger.Named("windows"))
	presets := Presets(cfg)

	return &Engine{
		detector: detector,
		enum:     enum,
		act:      act,
		launch: launcher.New(deps.Runner, detector, launcher.Settings{
			Delay:               cfg.LaunchDelay(),
			TerminalCommands:    cfg.TerminalCommands,
			FileManagerCommands: cfg.FileManagerCommands,
		}, deps.Logger.Named("launcher")),
		arranger: tiling.NewArranger(deps.Runner, enum, act, deps.Displays, tiling.Settings{
			Gap:           cfg.GapSize,
			DefaultTarget: cfg.DefaultTarget,
			Presets:       presets,
		}, deps.Logger.Named("tiling"), deps.Metrics),
		displays: deps.Displays,
		presets:  presets,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// Presets converts configured grid presets.
func Presets(cfg *config.Config) map[string]tiling.GridPlan {
	out := make(map[string]tiling.GridPlan, len(cfg.GridPresets))
	for name, p := range cfg.GridPresets {
		out[name] = tiling.GridPlan{Columns: p.Columns, Rows: p.Rows}
	}
	return out
}

// ListWindows returns Terminal and Files windows plus windows matching
// appNames. Never nil.
func (e *Engine) ListWindows(appNames []string) []windows.Record {
	records := e.enum.List(appNames)
	e.metrics.SetWindowsListed(len(records))
	return records
}

// ActivateWindow brings a window to the front.
func (e *Engine) ActivateWindow(id string) bool {
	return e.act.Activate(id)
}

// CloseWindow asks the window manager to close a window.
func (e *Engine) CloseWindow(id string) CloseResult {
	return CloseResult{Success: e.act.Close(id)}
}

// OpenTerminal opens a terminal in path, or in the home directory.
func (e *Engine) OpenTerminal(path string) OpenResult {
	return e.launch.OpenTerminal(path)
}

// OpenFileManager opens a file manager on path, or on the home directory.
func (e *Engine) OpenFileManager(path string) OpenResult {
	return e.launch.OpenFileManager(path)
}

// OpenApp starts an arbitrary application command in path.
func (e *Engine) OpenApp(command, path string) OpenResult {
	return e.launch.OpenApp(command, path)
}

// GetDisplays reads the display topology. Read failures yield an empty,
// non-nil slice.
func (e *Engine) GetDisplays() []platform.Display {
	displays, err := e.displays.Displays()
	if err != nil {
		e.logger.Warn("failed to read displays", zap.Error(err))
		return []platform.Display{}
	}
	if displays == nil {
		displays = []platform.Display{}
	}
	e.metrics.SetDisplays(len(displays))
	return displays
}

// ArrangeGrid tiles the matching windows.
func (e *Engine) ArrangeGrid(appNames []string, opts Options) ArrangeResult {
	return e.arranger.Arrange(appNames, opts)
}

// GridPresets returns the known presets.
func (e *Engine) GridPresets() map[string]tiling.GridPlan {
	out := make(map[string]tiling.GridPlan, len(e.presets))
	for k, v := range e.presets {
		out[k] = v
	}
	return out
}

// ToolStatus reports which tools are on PATH right now, including the
// terminal and file manager that would be launched.
func (e *Engine) ToolStatus() ToolStatus {
	return ToolStatus{
		Available:   e.detector.Availability(),
		Terminal:    e.detector.Terminal(),
		FileManager: e.detector.FileManager(),
	}
}

// ToolStatus is a snapshot of tool availability.
type ToolStatus struct {
	Available   map[string]bool `json:"available"`
	Terminal    string          `json:"terminal"`
	FileManager string          `json:"fileManager"`
}
