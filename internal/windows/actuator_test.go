package windows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/toolexec/toolexectest"
)

func TestActivateWithXdotool(t *testing.T) {
	fake := toolexectest.New("wmctrl", "xdotool")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	assert.True(t, a.Activate("0x03a00003"))
	assert.Equal(t, []string{
		"xdotool windowminimize --sync 0x03a00003",
		"xdotool windowactivate --sync 0x03a00003",
		"xdotool windowraise 0x03a00003",
	}, fake.Lines())
}

func TestActivateReportsActivateStep(t *testing.T) {
	fake := toolexectest.New("xdotool")
	fake.Fail("xdotool", "windowactivate", "--sync", "0x1")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	assert.False(t, a.Activate("0x1"))
}

func TestActivateFallsBackToWmctrl(t *testing.T) {
	fake := toolexectest.New("wmctrl")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	assert.True(t, a.Activate("0x03a00003"))
	assert.Equal(t, []string{"wmctrl -i -a 0x03a00003"}, fake.Lines())
}

func TestArrangeOneUnmaximizesFirst(t *testing.T) {
	fake := toolexectest.New("wmctrl")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	ok := a.ArrangeOne("0x42", platform.Rect{X: 10, Y: 20, Width: 640, Height: 480})

	assert.True(t, ok)
	assert.Equal(t, []string{
		"wmctrl -i -r 0x42 -b remove,maximized_vert,maximized_horz",
		"wmctrl -i -r 0x42 -e 0,10,20,640,480",
	}, fake.Lines())
}

func TestArrangeOneReportsMoveResizeOnly(t *testing.T) {
	fake := toolexectest.New("wmctrl")
	fake.Fail("wmctrl", "-i", "-r", "0x42", "-b", "remove,maximized_vert,maximized_horz")
	a := NewActuator(fake, DefaultTimeouts(), nil)
	assert.True(t, a.ArrangeOne("0x42", platform.Rect{Width: 1, Height: 1}))

	fake = toolexectest.New("wmctrl")
	fake.Fail("wmctrl", "-i", "-r", "0x42", "-e", "0,0,0,1,1")
	a = NewActuator(fake, DefaultTimeouts(), nil)
	assert.False(t, a.ArrangeOne("0x42", platform.Rect{Width: 1, Height: 1}))
}

func TestCloseAlwaysSucceeds(t *testing.T) {
	fake := toolexectest.New()
	a := NewActuator(fake, DefaultTimeouts(), nil)

	assert.True(t, a.Close("0x42"))
	assert.Equal(t, []string{"wmctrl -i -c 0x42"}, fake.Lines())
}

func TestGeometryFromXdotool(t *testing.T) {
	fake := toolexectest.New("xdotool", "wmctrl")
	fake.On("WINDOW=60817411\nX=1930\nY=40\nWIDTH=800\nHEIGHT=600\nSCREEN=0\n",
		"xdotool", "getwindowgeometry", "--shell", "0x03a00003")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	r, ok := a.Geometry("0x03a00003")

	require.True(t, ok)
	assert.Equal(t, platform.Rect{X: 1930, Y: 40, Width: 800, Height: 600}, r)
	assert.Empty(t, fake.CallsTo("wmctrl"))
}

func TestGeometryFallsBackToWmctrl(t *testing.T) {
	fake := toolexectest.New("wmctrl")
	fake.On("0x03a00001  0 0    0    1920 1080 host Desktop\n0x03a00003  0 2000 100  640  480  host Terminal\n",
		"wmctrl", "-lG")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	r, ok := a.Geometry("0x3a00003")

	require.True(t, ok)
	assert.Equal(t, platform.Rect{X: 2000, Y: 100, Width: 640, Height: 480}, r)
}

func TestGeometryUnavailable(t *testing.T) {
	fake := toolexectest.New("xdotool")
	fake.On("X=1\nY=2\n", "xdotool", "getwindowgeometry", "--shell", "0x1")
	a := NewActuator(fake, DefaultTimeouts(), nil)

	_, ok := a.Geometry("0x1")
	assert.False(t, ok)

	_, ok = a.Geometry("not-an-id")
	assert.False(t, ok)
}
