// Package apps maps raw process names to logical application identities.
package apps

import "strings"

// Built-in identities.
const (
	Terminal = "Terminal"
	Files    = "Files"
)

// TerminalPrefixes are matched as prefixes because some emulators suffix
// their process name (gnome-terminal-server, kitty.bin).
var TerminalPrefixes = []string{
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"mate-terminal",
	"lxterminal",
	"qterminal",
	"tilix",
	"terminator",
	"alacritty",
	"kitty",
	"wezterm",
	"ghostty",
	"foot",
	"xterm",
	"uxterm",
	"urxvt",
	"rxvt",
}

// FileManagers are matched exactly.
var FileManagers = []string{
	"nautilus",
	"dolphin",
	"thunar",
	"Thunar",
	"nemo",
	"caja",
	"pcmanfm",
	"pcmanfm-qt",
	"spacefm",
	"konqueror",
}

// Classifier holds the tables used by Classify. The zero value classifies
// everything as a pass-through name; use NewClassifier or Default.
type Classifier struct {
	terminalPrefixes []string
	fileManagers     []string
}

// Default uses the built-in tables only.
var Default = NewClassifier(nil, nil)

// NewClassifier appends extra entries after the built-in tables. Built-in
// order is never changed.
func NewClassifier(extraTerminalPrefixes, extraFileManagers []string) *Classifier {
	c := &Classifier{
		terminalPrefixes: append(append([]string(nil), TerminalPrefixes...), clean(extraTerminalPrefixes)...),
		fileManagers:     append(append([]string(nil), FileManagers...), clean(extraFileManagers)...),
	}
	return c
}

// Classify returns Terminal, Files, or processName unchanged.
func (c *Classifier) Classify(processName string) string {
	for _, prefix := range c.terminalPrefixes {
		if strings.HasPrefix(processName, prefix) {
			return Terminal
		}
	}
	for _, name := range c.fileManagers {
		if processName == name {
			return Files
		}
	}
	return processName
}

// Classify uses the built-in tables.
func Classify(processName string) string {
	return Default.Classify(processName)
}

// IsBuiltin reports whether name is one of the built-in identities.
func IsBuiltin(name string) bool {
	return name == Terminal || name == Files
}

func clean(in []string) []string {
	var out []string
	for _, s := range in {
		// An empty prefix would match every process.
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
