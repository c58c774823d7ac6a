// Package detect picks which installed tool serves each capability.
//
// Platform variance lives in the ordered tables below rather than in
// per-tool code paths; one resolver walks any table.
package detect

import "strings"

// Tools the engine drives directly.
const (
	ListTool    = "wmctrl"
	FocusTool   = "xdotool"
	ProcessTool = "ps"
)

// Terminal emulators in preference order.
var Terminals = []string{
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"mate-terminal",
	"tilix",
	"terminator",
	"alacritty",
	"kitty",
	"wezterm",
	"ghostty",
	"foot",
}

// TerminalFallback ships with every X11 installation.
const TerminalFallback = "xterm"

// File managers in preference order.
var FileManagers = []string{
	"nautilus",
	"dolphin",
	"thunar",
	"nemo",
	"caja",
	"pcmanfm",
	"pcmanfm-qt",
}

// FileManagerFallback hands the directory to the desktop's default handler.
const FileManagerFallback = "xdg-open"

// Prober reports whether an executable is on PATH.
type Prober interface {
	Exists(name string) bool
}

// First returns the first candidate the prober finds, or fallback.
func First(p Prober, candidates []string, fallback string) string {
	for _, c := range candidates {
		if p.Exists(c) {
			return c
		}
	}
	return fallback
}

// Detector resolves tools for one detection cycle. It holds no results;
// every call probes PATH again.
type Detector struct {
	probe                Prober
	preferredTerminal    string
	preferredFileManager string
}

// New creates a Detector. The preferred names, when non-empty, are tried
// before the built-in tables.
func New(p Prober, preferredTerminal, preferredFileManager string) *Detector {
	return &Detector{
		probe:                p,
		preferredTerminal:    strings.TrimSpace(preferredTerminal),
		preferredFileManager: strings.TrimSpace(preferredFileManager),
	}
}

// Terminal returns the terminal emulator to launch.
func (d *Detector) Terminal() string {
	return First(d.probe, withPreferred(d.preferredTerminal, Terminals), TerminalFallback)
}

// FileManager returns the file manager to launch.
func (d *Detector) FileManager() string {
	return First(d.probe, withPreferred(d.preferredFileManager, FileManagers), FileManagerFallback)
}

// HasListTool reports whether window enumeration is possible at all.
func (d *Detector) HasListTool() bool {
	return d.probe.Exists(ListTool)
}

// HasFocusTool reports whether the preferred focus/geometry tool is present.
func (d *Detector) HasFocusTool() bool {
	return d.probe.Exists(FocusTool)
}

// Availability reports presence of every tool the engine drives.
func (d *Detector) Availability() map[string]bool {
	return map[string]bool{
		ListTool:    d.probe.Exists(ListTool),
		FocusTool:   d.probe.Exists(FocusTool),
		ProcessTool: d.probe.Exists(ProcessTool),
	}
}

func withPreferred(preferred string, table []string) []string {
	if preferred == "" {
		return table
	}
	out := make([]string, 0, len(table)+1)
	out = append(out, preferred)
	return append(out, table...)
}
