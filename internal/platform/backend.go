// Package platform holds the display geometry types shared by the reader,
// the planner and the actuator.
package platform

import "errors"

// ErrUnsupported is returned by readers on platforms without X11.
var ErrUnsupported = errors.New("display topology is not supported on this platform")

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the rectangle's center point.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains uses half-open intervals: the left and top edges belong to the
// rectangle, the right and bottom edges do not.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of r and o, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Display describes a physical display and its usable work area.
type Display struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Frame    Rect   `json:"frame"`
	WorkArea Rect   `json:"workArea"`
	IsMain   bool   `json:"isMain"`
}

// NewDisplay derives the computed fields. The work area is clamped to the
// frame; a work area that misses the frame entirely falls back to the frame.
func NewDisplay(index int, name string, frame, workArea Rect) Display {
	clamped := workArea.Intersect(frame)
	if clamped.Empty() {
		clamped = frame
	}
	return Display{
		Index:    index,
		Name:     name,
		Frame:    frame,
		WorkArea: clamped,
		IsMain:   frame.X == 0 && frame.Y == 0,
	}
}

// Reader reads the display topology. Implementations read live state on
// every call.
type Reader interface {
	Displays() ([]Display, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func() ([]Display, error)

// Displays implements Reader.
func (f ReaderFunc) Displays() ([]Display, error) { return f() }

// Main returns the display whose frame starts at the origin.
func Main(displays []Display) (Display, bool) {
	for _, d := range displays {
		if d.IsMain {
			return d, true
		}
	}
	return Display{}, false
}

// ByIndex returns the display with the given 1-based index.
func ByIndex(displays []Display, index int) (Display, bool) {
	for _, d := range displays {
		if d.Index == index {
			return d, true
		}
	}
	return Display{}, false
}
