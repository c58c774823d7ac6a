package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestStrutWorkArea_TopPanelOnPrimaryOnly(t *testing.T) {
	left := Monitor{Name: "DP-1", X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Monitor{Name: "DP-2", X: 1920, Y: 0, Width: 1920, Height: 1080}
	struts := []ewmh.WmStrutPartial{{Top: 32, TopStartX: 0, TopEndX: 1919}}

	got, ok := strutWorkArea(left, 3840, 1080, struts)
	if !ok {
		t.Fatalf("expected strut to apply to left monitor")
	}
	want := Monitor{Name: "DP-1", X: 0, Y: 32, Width: 1920, Height: 1048}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, ok := strutWorkArea(right, 3840, 1080, struts); ok {
		t.Fatalf("strut confined to the left monitor must not touch the right one")
	}
}

func TestStrutWorkArea_FullWidthBottomAndLeftDock(t *testing.T) {
	m := Monitor{X: 0, Y: 0, Width: 2560, Height: 1440}
	bottom := fullStrut(&ewmh.WmStrut{Bottom: 48}, 2560, 1440)
	leftDock := ewmh.WmStrutPartial{Left: 64, LeftStartY: 0, LeftEndY: 1439}

	got, ok := strutWorkArea(m, 2560, 1440, []ewmh.WmStrutPartial{bottom, leftDock})
	if !ok {
		t.Fatalf("expected struts to apply")
	}
	want := Monitor{X: 64, Y: 0, Width: 2496, Height: 1392}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStrutWorkArea_LargestStrutPerEdgeWins(t *testing.T) {
	m := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	struts := []ewmh.WmStrutPartial{
		{Top: 24, TopEndX: 1919},
		{Top: 40, TopEndX: 1919},
	}

	got, _ := strutWorkArea(m, 1920, 1080, struts)
	if got.Y != 40 || got.Height != 1040 {
		t.Fatalf("expected top inset 40, got %+v", got)
	}
}

func TestStrutWorkArea_NoStruts(t *testing.T) {
	m := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	got, ok := strutWorkArea(m, 1920, 1080, nil)
	if ok {
		t.Fatalf("expected no adjustment")
	}
	if got != m {
		t.Fatalf("monitor changed: %+v", got)
	}
}

func TestIntersectMonitor(t *testing.T) {
	m := Monitor{X: 1920, Y: 0, Width: 1920, Height: 1080}

	got, ok := intersectMonitor(m, 0, 27, 3840, 1053)
	if !ok {
		t.Fatalf("expected intersection")
	}
	if got.X != 1920 || got.Y != 27 || got.Width != 1920 || got.Height != 1053 {
		t.Fatalf("unexpected intersection %+v", got)
	}

	if _, ok := intersectMonitor(m, 0, 0, 1920, 1080); ok {
		t.Fatalf("disjoint work area must not intersect")
	}
}
