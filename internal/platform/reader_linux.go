//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/wingrid/internal/x11"
)

// X11Reader reads displays from RandR. Each call opens its own
// connection so no state survives between requests.
type X11Reader struct{}

var _ Reader = X11Reader{}

// NewReader returns the reader for this platform.
func NewReader() Reader {
	return X11Reader{}
}

// Displays returns active CRTCs in enumeration order with 1-based indices.
func (X11Reader) Displays() ([]Display, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, fmt.Errorf("failed to read monitors: %w", err)
	}

	displays := make([]Display, 0, len(monitors))
	for i, m := range monitors {
		wa := conn.WorkArea(m)
		displays = append(displays, NewDisplay(i+1, m.Name, rectOf(m), rectOf(wa)))
	}
	return displays, nil
}

func rectOf(m x11.Monitor) Rect {
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}
