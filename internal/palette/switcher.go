package palette

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/wingrid/internal/apps"
	"github.com/1broseidon/wingrid/internal/engine"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/windows"
)

// Action is what selecting an item does.
type Action string

const (
	ActionNone            Action = ""
	ActionActivate        Action = "activate"
	ActionOpenTerminal    Action = "open-terminal"
	ActionOpenFileManager Action = "open-file-manager"
	ActionArrange         Action = "arrange"
)

// Target performs the selected action.
type Target interface {
	ListWindows(appNames []string) ([]windows.Record, error)
	ActivateWindow(id string) (bool, error)
	CloseWindow(id string) (engine.CloseResult, error)
	OpenTerminal(path string) (engine.OpenResult, error)
	OpenFileManager(path string) (engine.OpenResult, error)
	ArrangeGrid(appNames []string, opts engine.Options) (engine.ArrangeResult, error)
}

// Outcome describes what a switcher run did.
type Outcome struct {
	Action   Action `json:"action"`
	WindowID string `json:"windowId,omitempty"`
	Closed   bool   `json:"closed,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Items builds the palette rows: windows first, then actions.
func Items(records []windows.Record, presets map[string]tiling.GridPlan) []Item {
	items := make([]Item, 0, len(records)+len(presets)+6)
	if len(records) > 0 {
		items = append(items, Item{Label: "Windows", IsHeader: true})
	}
	for _, r := range records {
		title := r.Title
		if title == "" {
			title = r.ID
		}
		items = append(items, Item{
			Label:    fmt.Sprintf("%s #%d  %s", r.AppName, r.Index, title),
			Icon:     iconFor(r.AppName),
			Info:     strings.ToLower(r.AppName),
			Action:   ActionActivate,
			WindowID: r.ID,
		})
	}

	items = append(items,
		Item{Label: "Actions", IsHeader: true},
		Item{Label: "Open terminal", Icon: "utilities-terminal", Action: ActionOpenTerminal},
		Item{Label: "Open file manager", Icon: "system-file-manager", Action: ActionOpenFileManager},
		Item{Label: "Arrange grid", Icon: "view-grid", Action: ActionArrange},
	)

	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := presets[name]
		items = append(items, Item{
			Label:  fmt.Sprintf("Arrange grid: %s (%dx%d)", name, p.Columns, p.Rows),
			Icon:   "view-grid",
			Action: ActionArrange,
			Preset: name,
		})
	}
	return items
}

func iconFor(appName string) string {
	switch appName {
	case apps.Terminal:
		return "utilities-terminal"
	case apps.Files:
		return "system-file-manager"
	default:
		return strings.ToLower(appName)
	}
}

// Run lists windows, shows the palette and performs the selection.
// Alt+Return on a window closes it instead of activating it.
func Run(b Backend, t Target, appNames []string, presets map[string]tiling.GridPlan) (Outcome, error) {
	records, err := t.ListWindows(appNames)
	if err != nil {
		return Outcome{}, err
	}

	message := ""
	if b.Capabilities().MessageBar {
		message = fmt.Sprintf("%d windows  |  Enter: activate  Alt+Return: close", len(records))
	}

	sel, err := b.Show("wingrid", Items(records, presets), message)
	if err != nil {
		return Outcome{}, err
	}
	return perform(t, appNames, sel)
}

func perform(t Target, appNames []string, sel SelectResult) (Outcome, error) {
	item := sel.Item
	out := Outcome{Action: item.Action, WindowID: item.WindowID}

	switch item.Action {
	case ActionActivate:
		if sel.ExitCode == ExitCustom1 {
			if _, err := t.CloseWindow(item.WindowID); err != nil {
				return out, err
			}
			out.Closed = true
			return out, nil
		}
		ok, err := t.ActivateWindow(item.WindowID)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, fmt.Errorf("could not activate %s", item.WindowID)
		}
		return out, nil

	case ActionOpenTerminal, ActionOpenFileManager:
		open := t.OpenTerminal
		if item.Action == ActionOpenFileManager {
			open = t.OpenFileManager
		}
		res, err := open("")
		if err != nil {
			return out, err
		}
		if !res.Success {
			return out, errors.New(res.Error)
		}
		out.Detail = res.WindowName
		return out, nil

	case ActionArrange:
		res, err := t.ArrangeGrid(appNames, engine.Options{Preset: item.Preset})
		if err != nil {
			return out, err
		}
		if !res.Success {
			return out, fmt.Errorf("arrange failed: %s", res.Error)
		}
		out.Detail = fmt.Sprintf("arranged %d windows", res.Arranged)
		return out, nil

	default:
		// Headers are selectable in plain dmenu.
		return Outcome{Action: ActionNone}, nil
	}
}
