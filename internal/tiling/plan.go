// Package tiling plans grids and arranges windows into them.
package tiling

import "github.com/1broseidon/wingrid/internal/platform"

// GridPlan is a columns×rows grid. The last row may be under-populated.
type GridPlan struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// PlanGrid picks grid dimensions for count windows on a display widthPx
// wide. A positive userCols is used as is; otherwise columns follow the
// window count and are widened on large displays. A positive userRows
// overrides the computed row count. Callers must not plan for zero
// windows.
func PlanGrid(count, widthPx, userCols, userRows int) GridPlan {
	cols := userCols
	if cols <= 0 {
		cols = columnsFor(count)
		switch {
		case widthPx > 3000 && cols < 5:
			cols = 5
		case widthPx > 2560 && cols < 4:
			cols = 4
		case widthPx > 1920 && cols < 3:
			cols = 3
		}
	}

	rows := userRows
	if rows <= 0 {
		rows = ceilDiv(count, cols)
	}
	return GridPlan{Columns: cols, Rows: max(rows, 1)}
}

func columnsFor(count int) int {
	switch {
	case count <= 1:
		return 1
	case count <= 2:
		return 2
	case count <= 6:
		return 3
	case count <= 12:
		return 4
	case count <= 20:
		return 5
	default:
		return 6
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Positions lays count windows row-major into area. Each cell is separated
// from its neighbours and from the area's edges by gap pixels. When count
// exceeds the plan's capacity the grid grows extra rows so every window
// stays on screen.
func Positions(plan GridPlan, count int, area platform.Rect, gap int) []platform.Rect {
	if count <= 0 {
		return nil
	}
	cols := max(plan.Columns, 1)
	rows := max(plan.Rows, ceilDiv(count, cols), 1)
	gap = max(gap, 0)

	cellWidth := max((area.Width-(cols+1)*gap)/cols, 1)
	cellHeight := max((area.Height-(rows+1)*gap)/rows, 1)

	positions := make([]platform.Rect, count)
	for i := range positions {
		row := i / cols
		col := i % cols
		positions[i] = platform.Rect{
			X:      area.X + gap + col*(cellWidth+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions
}
