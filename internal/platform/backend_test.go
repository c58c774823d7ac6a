package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsIsHalfOpen(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	assert.True(t, r.Contains(0, 0), "top-left corner is inside")
	assert.True(t, r.Contains(1919, 1079))
	assert.False(t, r.Contains(1920, 500), "right edge is outside")
	assert.False(t, r.Contains(500, 1080), "bottom edge is outside")
	assert.False(t, r.Contains(-1, 0))
}

func TestRectCenter(t *testing.T) {
	x, y := Rect{X: 100, Y: 50, Width: 801, Height: 600}.Center()
	assert.Equal(t, 500, x)
	assert.Equal(t, 350, y)
}

func TestRectIntersect(t *testing.T) {
	frame := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	assert.Equal(t,
		Rect{X: 1920, Y: 32, Width: 1920, Height: 1048},
		Rect{X: 0, Y: 32, Width: 3840, Height: 1048}.Intersect(frame),
	)
	assert.True(t, Rect{X: 0, Y: 0, Width: 1920, Height: 1080}.Intersect(frame).Empty())
}

func TestNewDisplay(t *testing.T) {
	frame := Rect{X: 0, Y: 0, Width: 2560, Height: 1440}

	d := NewDisplay(1, "DP-1", frame, Rect{X: 0, Y: 27, Width: 2560, Height: 1413})
	assert.True(t, d.IsMain)
	assert.Equal(t, Rect{X: 0, Y: 27, Width: 2560, Height: 1413}, d.WorkArea)

	// Work area spilling past the frame is clamped.
	d = NewDisplay(1, "DP-1", frame, Rect{X: -10, Y: 0, Width: 3000, Height: 1440})
	assert.Equal(t, frame, d.WorkArea)

	// Disjoint work area falls back to the frame.
	d = NewDisplay(2, "HDMI-1", Rect{X: 2560, Y: 0, Width: 1920, Height: 1080}, Rect{X: 0, Y: 0, Width: 100, Height: 100})
	assert.False(t, d.IsMain)
	assert.Equal(t, d.Frame, d.WorkArea)
}

func TestMainAndByIndex(t *testing.T) {
	displays := []Display{
		NewDisplay(1, "left", Rect{X: -1920, Y: 0, Width: 1920, Height: 1080}, Rect{}),
		NewDisplay(2, "primary", Rect{X: 0, Y: 0, Width: 2560, Height: 1440}, Rect{}),
	}

	main, ok := Main(displays)
	assert.True(t, ok)
	assert.Equal(t, 2, main.Index)

	d, ok := ByIndex(displays, 1)
	assert.True(t, ok)
	assert.Equal(t, "left", d.Name)

	_, ok = ByIndex(displays, 3)
	assert.False(t, ok)

	_, ok = Main(displays[:1])
	assert.False(t, ok)
}
