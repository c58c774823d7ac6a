package mcp

import (
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/windows"
)

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	AppNames []string `json:"app_names,omitempty" jsonschema:"Extra application names to include besides terminals and file managers. Matched as prefixes of the window class or process name."`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []windows.Record `json:"windows"`
}

// WindowInput identifies one window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as returned by list_windows (e.g. 0x03a00007)"`
}

// ActivateWindowOutput is the output for the activate_window tool.
type ActivateWindowOutput struct {
	Success bool `json:"success"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Success bool `json:"success"`
}

// OpenInput is the input for open_terminal and open_file_manager.
type OpenInput struct {
	Path string `json:"path,omitempty" jsonschema:"Directory to open (default: home directory). A leading ~ is expanded."`
}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	App  string `json:"app" jsonschema:"required,Command line to start, e.g. 'code --new-window'"`
	Path string `json:"path,omitempty" jsonschema:"Working directory (default: home directory)"`
}

// OpenOutput is the output for the open_* tools.
type OpenOutput struct {
	Success    bool   `json:"success"`
	WindowName string `json:"window_name,omitempty"`
	Path       string `json:"path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// GetDisplaysInput is the (empty) input for the get_displays tool.
type GetDisplaysInput struct{}

// GetDisplaysOutput is the output for the get_displays tool.
type GetDisplaysOutput struct {
	Displays []platform.Display `json:"displays"`
}

// ArrangeGridInput is the input for the arrange_grid tool.
type ArrangeGridInput struct {
	AppNames     []string `json:"app_names,omitempty" jsonschema:"Extra application names to arrange besides terminals and file managers"`
	Columns      int      `json:"columns,omitempty" jsonschema:"Force this many columns (default: chosen from window count and display width)"`
	Rows         int      `json:"rows,omitempty" jsonschema:"Force this many rows (default: enough rows for every window)"`
	DisplayIndex int      `json:"display_index,omitempty" jsonschema:"Put every window on this display (1-based). Omit to keep each window on the display it is on."`
	Preset       string   `json:"preset,omitempty" jsonschema:"Named grid preset from config (see list_presets)"`
}

// ArrangeGridOutput is the output for the arrange_grid tool.
type ArrangeGridOutput struct {
	Success  bool   `json:"success"`
	Arranged int    `json:"arranged"`
	Error    string `json:"error,omitempty"`
}

// ListPresetsInput is the (empty) input for the list_presets tool.
type ListPresetsInput struct{}

// ListPresetsOutput is the output for the list_presets tool.
type ListPresetsOutput struct {
	Presets map[string]tiling.GridPlan `json:"presets"`
}
