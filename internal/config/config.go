// Package config loads wingrid settings from YAML with environment
// overrides.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values.
const (
	DefaultLogLevel      = "info"
	DefaultArrangeHotkey = "Mod4-Mod1-g"
	DefaultLaunchDelayMS = 500
	DefaultListMS        = 5000
	DefaultActionMS      = 2000
)

// Arrangement targets used when a request names no display.
const (
	TargetAuto = "auto"
	TargetMain = "main"
)

// Config is the effective configuration.
type Config struct {
	LogLevel             string                `yaml:"log_level"`
	GapSize              int                   `yaml:"gap_size"`
	ArrangeHotkey        string                `yaml:"arrange_hotkey"`
	DefaultTarget        string                `yaml:"default_target"`
	LaunchDelayMS        int                   `yaml:"launch_delay_ms"`
	Timeouts             Timeouts              `yaml:"timeouts"`
	PreferredTerminal    string                `yaml:"preferred_terminal,omitempty"`
	PreferredFileManager string                `yaml:"preferred_file_manager,omitempty"`
	TerminalCommands     map[string]string     `yaml:"terminal_commands,omitempty"`
	FileManagerCommands  map[string]string     `yaml:"file_manager_commands,omitempty"`
	Classifier           Classifier            `yaml:"classifier"`
	GridPresets          map[string]GridPreset `yaml:"grid_presets"`
	MetricsAddr          string                `yaml:"metrics_addr,omitempty"`
	PaletteBackend       string                `yaml:"palette_backend,omitempty"`
	PaletteHotkey        string                `yaml:"palette_hotkey,omitempty"`
}

// Timeouts bounds external tool calls, in milliseconds.
type Timeouts struct {
	ListMS   int `yaml:"list_ms"`
	ActionMS int `yaml:"action_ms"`
}

// Classifier extends the built-in application tables.
type Classifier struct {
	TerminalPrefixes []string `yaml:"terminal_prefixes,omitempty"`
	FileManagers     []string `yaml:"file_managers,omitempty"`
}

// GridPreset is a named grid shape. Rows 0 means "as many as needed".
type GridPreset struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		GapSize:       0,
		ArrangeHotkey: DefaultArrangeHotkey,
		DefaultTarget: TargetAuto,
		LaunchDelayMS: DefaultLaunchDelayMS,
		Timeouts: Timeouts{
			ListMS:   DefaultListMS,
			ActionMS: DefaultActionMS,
		},
		GridPresets: map[string]GridPreset{
			"two-up": {Columns: 2, Rows: 1},
			"quad":   {Columns: 2, Rows: 2},
			"six":    {Columns: 3, Rows: 2},
		},
	}
}

// ListTimeout is the window listing budget.
func (c *Config) ListTimeout() time.Duration {
	return time.Duration(c.Timeouts.ListMS) * time.Millisecond
}

// ActionTimeout is the per-window action budget.
func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.Timeouts.ActionMS) * time.Millisecond
}

// LaunchDelay is how long a launch is watched before success is reported.
func (c *Config) LaunchDelay() time.Duration {
	return time.Duration(c.LaunchDelayMS) * time.Millisecond
}

// ValidationError points at the offending key and, when known, where it
// was set.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every key and returns the first problem found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	switch c.DefaultTarget {
	case TargetAuto, TargetMain:
	default:
		return &ValidationError{Path: "default_target", Err: fmt.Errorf("default_target must be one of: auto, main")}
	}
	if c.LaunchDelayMS <= 0 {
		return &ValidationError{Path: "launch_delay_ms", Err: fmt.Errorf("launch_delay_ms must be > 0")}
	}
	if c.Timeouts.ListMS <= 0 {
		return &ValidationError{Path: "timeouts.list_ms", Err: fmt.Errorf("list_ms must be > 0")}
	}
	if c.Timeouts.ActionMS <= 0 {
		return &ValidationError{Path: "timeouts.action_ms", Err: fmt.Errorf("action_ms must be > 0")}
	}
	if err := validateCommands("terminal_commands", c.TerminalCommands); err != nil {
		return err
	}
	if err := validateCommands("file_manager_commands", c.FileManagerCommands); err != nil {
		return err
	}
	for i, p := range c.Classifier.TerminalPrefixes {
		if strings.TrimSpace(p) == "" {
			return &ValidationError{Path: fmt.Sprintf("classifier.terminal_prefixes[%d]", i), Err: fmt.Errorf("prefix must not be empty")}
		}
	}
	for i, n := range c.Classifier.FileManagers {
		if strings.TrimSpace(n) == "" {
			return &ValidationError{Path: fmt.Sprintf("classifier.file_managers[%d]", i), Err: fmt.Errorf("name must not be empty")}
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.PaletteBackend)) {
	case "", "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	for name, p := range c.GridPresets {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "grid_presets", Err: fmt.Errorf("grid_presets contains an empty name")}
		}
		if p.Columns < 1 {
			return &ValidationError{Path: "grid_presets." + name + ".columns", Err: fmt.Errorf("columns must be >= 1")}
		}
		if p.Rows < 0 {
			return &ValidationError{Path: "grid_presets." + name + ".rows", Err: fmt.Errorf("rows must be >= 0")}
		}
	}
	return nil
}

func validateCommands(path string, commands map[string]string) error {
	for tool, cmd := range commands {
		if strings.TrimSpace(tool) == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("%s contains an empty tool name", path)}
		}
		if strings.TrimSpace(cmd) == "" {
			return &ValidationError{Path: path + "." + tool, Err: fmt.Errorf("command must not be empty")}
		}
	}
	return nil
}
