// Package palette shows a dmenu-style quick switcher (rofi, fuzzel,
// wofi or dmenu) listing windows and wingrid actions.
package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/wingrid/internal/detect"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Exit codes for rofi kb-custom keybindings
const (
	ExitNormal    = 0
	ExitCancelled = 1
	ExitCustom1   = 10 // Alt+Return
	ExitCustom2   = 11 // Alt+d
)

// Backends in preference order.
var Backends = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// Item is a single entry in the palette.
type Item struct {
	Label    string
	Icon     string // icon name for rofi -show-icons
	Info     string // hidden search keywords
	Action   Action
	WindowID string
	Preset   string
	IsHeader bool
	IsActive bool
}

// SelectResult is the chosen item and how it was chosen.
type SelectResult struct {
	Item     Item
	ExitCode int
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons         bool
	Markup        bool
	NonSelectable bool
	CustomKeys    bool
	IndexOutput   bool
	MessageBar    bool
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item, message string) (SelectResult, error)
	Capabilities() Capabilities
}

// NewBackend returns the backend called name, or the first installed one
// for "" and "auto".
func NewBackend(p detect.Prober, name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		name = detect.First(p, Backends, "")
		if name == "" {
			return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(Backends, ", "))
		}
	}

	b, ok := newDmenuLike(name)
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(Backends, ", "))
	}
	if !p.Exists(name) {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return b, nil
}
