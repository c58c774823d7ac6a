package tiling

import (
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/windows"
)

// fallbackGeometry stands in for windows whose geometry cannot be read.
// Its center (50,50) lands on whichever display covers the origin.
var fallbackGeometry = platform.Rect{X: 0, Y: 0, Width: 100, Height: 100}

// Geometer reads a window's current on-screen rectangle.
type Geometer interface {
	Geometry(id string) (platform.Rect, bool)
}

// Assign groups windows by the display whose work area contains their
// center point, keyed by display index. Windows keep their relative order
// within a group. Windows whose center is on no display are dropped and
// displays without windows have no entry.
func Assign(records []windows.Record, displays []platform.Display, geo Geometer) map[int][]windows.Record {
	groups := make(map[int][]windows.Record)
	for _, r := range records {
		rect, ok := geo.Geometry(r.ID)
		if !ok {
			rect = fallbackGeometry
		}
		cx, cy := rect.Center()
		for _, d := range displays {
			if d.WorkArea.Contains(cx, cy) {
				groups[d.Index] = append(groups[d.Index], r)
				break
			}
		}
	}
	return groups
}
