package tiling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/wingrid/internal/metrics"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/toolexec/toolexectest"
	"github.com/1broseidon/wingrid/internal/windows"
)

const desk = `0x1  0 10   host Terminal one
0x2  0 10   host Terminal two
0x3  0 11   host Downloads
`

// newDesk scripts two terminals and a file manager. 0x1 sits on the left
// display, 0x2 on the right and 0x3 has unreadable geometry.
func newDesk() *toolexectest.Fake {
	fake := toolexectest.New("wmctrl", "ps", "xdotool")
	fake.On(desk, "wmctrl", "-lp")
	fake.On("gnome-terminal-server\n", "ps", "-p", "10", "-o", "comm=")
	fake.On("nautilus\n", "ps", "-p", "11", "-o", "comm=")
	fake.On("X=100\nY=100\nWIDTH=800\nHEIGHT=600\n", "xdotool", "getwindowgeometry", "--shell", "0x1")
	fake.On("X=2000\nY=100\nWIDTH=800\nHEIGHT=600\n", "xdotool", "getwindowgeometry", "--shell", "0x2")
	return fake
}

func newArranger(fake *toolexectest.Fake, displays []platform.Display, settings Settings) *Arranger {
	timeouts := windows.DefaultTimeouts()
	reader := platform.ReaderFunc(func() ([]platform.Display, error) { return displays, nil })
	return NewArranger(
		fake,
		windows.NewEnumerator(fake, nil, timeouts, nil),
		windows.NewActuator(fake, timeouts, nil),
		reader,
		settings,
		nil,
		nil,
	)
}

// moves returns every move-resize command issued.
func moves(fake *toolexectest.Fake) []string {
	var out []string
	for _, c := range fake.CallsTo("wmctrl") {
		for _, a := range c.Args {
			if a == "-e" {
				out = append(out, c.Line())
				break
			}
		}
	}
	return out
}

func TestArrange_AutoModeTilesEachDisplay(t *testing.T) {
	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{})

	res := a.Arrange(nil, Options{})

	assert.Equal(t, Result{Success: true, Arranged: 3}, res)
	assert.Equal(t, []string{
		"wmctrl -i -r 0x1 -e 0,0,0,960,1080",
		"wmctrl -i -r 0x3 -e 0,960,0,960,1080",
		"wmctrl -i -r 0x2 -e 0,1920,0,1920,1080",
	}, moves(fake))
}

func TestArrange_UnmaximizeBeforeEveryMove(t *testing.T) {
	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{})

	a.Arrange(nil, Options{DisplayIndex: 1})

	var wm []string
	for _, c := range fake.CallsTo("wmctrl") {
		if c.Args[0] == "-i" {
			wm = append(wm, c.Line())
		}
	}
	require.Len(t, wm, 6)
	for i := 0; i < len(wm); i += 2 {
		assert.Contains(t, wm[i], "-b remove,maximized_vert,maximized_horz")
		assert.Contains(t, wm[i+1], "-e 0,")
	}
}

func TestArrange_TargetModeSkipsGeometry(t *testing.T) {
	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{})

	res := a.Arrange(nil, Options{DisplayIndex: 2})

	assert.Equal(t, Result{Success: true, Arranged: 3}, res)
	assert.Equal(t, []string{
		"wmctrl -i -r 0x1 -e 0,1920,0,640,1080",
		"wmctrl -i -r 0x2 -e 0,2560,0,640,1080",
		"wmctrl -i -r 0x3 -e 0,3200,0,640,1080",
	}, moves(fake))
	assert.Empty(t, fake.CallsTo("xdotool"))
}

func TestArrange_DefaultTargetMain(t *testing.T) {
	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{DefaultTarget: TargetMain})

	res := a.Arrange(nil, Options{})

	assert.True(t, res.Success)
	assert.Equal(t, "wmctrl -i -r 0x1 -e 0,0,0,640,1080", moves(fake)[0])
}

func TestArrange_UnknownDisplay(t *testing.T) {
	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{})

	n, err := a.Run(nil, Options{DisplayIndex: 3})

	assert.ErrorIs(t, err, ErrDisplayNotFound)
	assert.Zero(t, n)
	assert.Empty(t, moves(fake))

	res := a.Arrange(nil, Options{DisplayIndex: 3})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "display not found")
}

func TestArrange_ListToolMissingPerformsNoActuation(t *testing.T) {
	fake := newDesk()
	fake.Uninstall("wmctrl")
	a := newArranger(fake, sideBySide(), Settings{})

	res := a.Arrange([]string{"firefox"}, Options{})

	assert.False(t, res.Success)
	assert.Zero(t, res.Arranged)
	assert.Equal(t, ErrListToolMissing.Error(), res.Error)
	assert.Empty(t, fake.Calls(), "no tool may run when wmctrl is missing")
}

func TestArrange_NoWindows(t *testing.T) {
	fake := toolexectest.New("wmctrl", "ps")
	displaysRead := false
	reader := platform.ReaderFunc(func() ([]platform.Display, error) {
		displaysRead = true
		return sideBySide(), nil
	})
	timeouts := windows.DefaultTimeouts()
	a := NewArranger(fake, windows.NewEnumerator(fake, nil, timeouts, nil), windows.NewActuator(fake, timeouts, nil), reader, Settings{}, nil, nil)

	res := a.Arrange(nil, Options{})

	assert.Equal(t, Result{Success: true, Arranged: 0}, res)
	assert.False(t, displaysRead)
}

func TestArrange_DisplayReadError(t *testing.T) {
	fake := newDesk()
	timeouts := windows.DefaultTimeouts()
	reader := platform.ReaderFunc(func() ([]platform.Display, error) {
		return nil, errors.New("no $DISPLAY")
	})
	a := NewArranger(fake, windows.NewEnumerator(fake, nil, timeouts, nil), windows.NewActuator(fake, timeouts, nil), reader, Settings{}, nil, nil)

	n, err := a.Run(nil, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no $DISPLAY")
	assert.Zero(t, n)
}

func TestArrange_NoDisplays(t *testing.T) {
	a := newArranger(newDesk(), nil, Settings{})

	_, err := a.Run(nil, Options{})

	assert.ErrorIs(t, err, ErrNoDisplays)
}

func TestArrange_PerWindowFailureIsSwallowed(t *testing.T) {
	fake := newDesk()
	fake.Fail("wmctrl", "-i", "-r", "0x1", "-e", "0,0,0,960,1080")
	a := newArranger(fake, sideBySide(), Settings{})

	res := a.Arrange(nil, Options{})

	assert.Equal(t, Result{Success: true, Arranged: 2}, res)
	assert.Len(t, moves(fake), 3)
}

func TestArrange_IsIdempotent(t *testing.T) {
	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{Gap: 8})

	first := a.Arrange(nil, Options{})
	firstMoves := moves(fake)
	fake.Reset()
	second := a.Arrange(nil, Options{})

	assert.Equal(t, first, second)
	assert.Equal(t, firstMoves, moves(fake))
	assert.NotEmpty(t, firstMoves)
}

func TestArrange_Presets(t *testing.T) {
	presets := map[string]GridPlan{"column": {Columns: 1, Rows: 3}}

	fake := newDesk()
	a := newArranger(fake, sideBySide(), Settings{Presets: presets})
	res := a.Arrange(nil, Options{DisplayIndex: 1, Preset: "column"})
	assert.True(t, res.Success)
	assert.Equal(t, []string{
		"wmctrl -i -r 0x1 -e 0,0,0,1920,360",
		"wmctrl -i -r 0x2 -e 0,0,360,1920,360",
		"wmctrl -i -r 0x3 -e 0,0,720,1920,360",
	}, moves(fake))

	// Explicit columns beat the preset.
	fake = newDesk()
	a = newArranger(fake, sideBySide(), Settings{Presets: presets})
	a.Arrange(nil, Options{DisplayIndex: 1, Preset: "column", Columns: 3})
	assert.Equal(t, "wmctrl -i -r 0x2 -e 0,640,0,640,360", moves(fake)[1])

	fake = newDesk()
	a = newArranger(fake, sideBySide(), Settings{Presets: presets})
	_, err := a.Run(nil, Options{Preset: "nope"})
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Empty(t, fake.Calls())
}

func TestArrange_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	fake := newDesk()
	timeouts := windows.DefaultTimeouts()
	reader := platform.ReaderFunc(func() ([]platform.Display, error) { return sideBySide(), nil })
	a := NewArranger(fake, windows.NewEnumerator(fake, nil, timeouts, nil), windows.NewActuator(fake, timeouts, nil), reader, Settings{}, nil, m)

	a.Arrange(nil, Options{})

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "wingrid_windows_arranged_total" {
			found = true
			assert.Equal(t, 3.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}
