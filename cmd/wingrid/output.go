package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/tiling"
	"github.com/1broseidon/wingrid/internal/windows"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderWindows(records []windows.Record) string {
	t := newTable("ID", "APP", "#", "TITLE")
	for _, r := range records {
		t.Row(r.ID, r.AppName, strconv.Itoa(r.Index), r.Title)
	}
	return t.String()
}

func renderDisplays(displays []platform.Display) string {
	t := newTable("INDEX", "NAME", "FRAME", "WORK AREA", "MAIN")
	for _, d := range displays {
		mark := ""
		if d.IsMain {
			mark = "*"
		}
		t.Row(strconv.Itoa(d.Index), d.Name, formatRect(d.Frame), formatRect(d.WorkArea), mark)
	}
	return t.String()
}

func renderPresets(presets map[string]tiling.GridPlan) string {
	t := newTable("PRESET", "COLUMNS", "ROWS")
	for _, name := range sortedKeys(presets) {
		p := presets[name]
		t.Row(name, strconv.Itoa(p.Columns), strconv.Itoa(p.Rows))
	}
	return t.String()
}

// formatRect renders r as WxH+X+Y, the X geometry notation.
func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
