package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/wingrid/internal/toolexec/toolexectest"
)

func TestFirstHonorsTableOrder(t *testing.T) {
	// Both installed: the table order decides, not install order or alphabet.
	fake := toolexectest.New("kitty", "konsole")

	assert.Equal(t, "konsole", First(fake, Terminals, TerminalFallback))
}

func TestFirstFallsBack(t *testing.T) {
	fake := toolexectest.New()

	assert.Equal(t, TerminalFallback, First(fake, Terminals, TerminalFallback))
	assert.Equal(t, FileManagerFallback, First(fake, FileManagers, FileManagerFallback))
}

func TestDetectorTerminal(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		preferred string
		want      string
	}{
		{"gnome first", []string{"gnome-terminal", "alacritty"}, "", "gnome-terminal"},
		{"modern before xterm", []string{"alacritty", "xterm"}, "", "alacritty"},
		{"nothing installed", nil, "", "xterm"},
		{"preferred wins", []string{"gnome-terminal", "wezterm"}, "wezterm", "wezterm"},
		{"missing preferred ignored", []string{"konsole"}, "wezterm", "konsole"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(toolexectest.New(tt.installed...), tt.preferred, "")
			assert.Equal(t, tt.want, d.Terminal())
		})
	}
}

func TestDetectorFileManager(t *testing.T) {
	d := New(toolexectest.New("nemo", "thunar"), "", "")
	assert.Equal(t, "thunar", d.FileManager())

	d = New(toolexectest.New("nemo", "thunar"), "", "nemo")
	assert.Equal(t, "nemo", d.FileManager())

	d = New(toolexectest.New(), "", "")
	assert.Equal(t, "xdg-open", d.FileManager())
}

func TestDetectorReprobesEveryCall(t *testing.T) {
	fake := toolexectest.New()
	d := New(fake, "", "")

	assert.False(t, d.HasListTool())
	fake.Install("wmctrl")
	assert.True(t, d.HasListTool())
}

func TestAvailability(t *testing.T) {
	d := New(toolexectest.New("wmctrl", "ps"), "", "")

	assert.Equal(t, map[string]bool{
		"wmctrl":  true,
		"xdotool": false,
		"ps":      true,
	}, d.Availability())
}
