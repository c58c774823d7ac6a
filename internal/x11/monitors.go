package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one active RandR CRTC in root coordinates.
type Monitor struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Monitors returns active monitors in CRTC enumeration order.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// WorkArea returns the part of m not reserved by docks. Dock struts are
// preferred; _NET_WORKAREA intersected with the monitor is the fallback,
// and the monitor itself the last resort.
func (c *Connection) WorkArea(m Monitor) Monitor {
	if struts, rootW, rootH, err := c.dockStruts(); err == nil {
		if wa, ok := strutWorkArea(m, rootW, rootH, struts); ok {
			return wa
		}
	}

	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return m
	}
	desktop := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		desktop = int(cur)
	}
	wa := areas[desktop]
	if isect, ok := intersectMonitor(m, int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height)); ok {
		return isect
	}
	return m
}

// dockStruts collects the strut reservations of every dock client. Docks
// setting only _NET_WM_STRUT are widened to span the whole root edge.
func (c *Connection) dockStruts() ([]ewmh.WmStrutPartial, int, int, error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, 0, 0, err
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, 0, 0, err
	}

	var struts []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, *sp)
			continue
		}
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, fullStrut(s, rootW, rootH))
		}
	}
	return struts, rootW, rootH, nil
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullStrut(s *ewmh.WmStrut, rootW, rootH int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootH - 1),
		RightEndY:  uint(rootH - 1),
		TopEndX:    uint(rootW - 1),
		BottomEndX: uint(rootW - 1),
	}
}

type insets struct {
	left, right, top, bottom int
}

// strutWorkArea shrinks m by every strut band that overlaps it. It reports
// false when no strut touches the monitor.
func strutWorkArea(m Monitor, rootW, rootH int, struts []ewmh.WmStrutPartial) (Monitor, bool) {
	var in insets
	for i := range struts {
		accumulateStrut(m, rootW, rootH, &struts[i], &in)
	}
	if in == (insets{}) {
		return m, false
	}

	m.X += in.left
	m.Y += in.top
	m.Width = max(m.Width-(in.left+in.right), 1)
	m.Height = max(m.Height-(in.top+in.bottom), 1)
	return m, true
}

// Strut bands are in root coordinates; start/end ranges are inclusive.
func accumulateStrut(m Monitor, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *insets) {
	if sp.Top > 0 {
		w, h := overlap(m, int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
		if w > 0 {
			acc.top = max(acc.top, h)
		}
	}
	if sp.Bottom > 0 {
		w, h := overlap(m, int(sp.BottomStartX), rootH-int(sp.Bottom), int(sp.BottomEndX)+1, rootH)
		if w > 0 {
			acc.bottom = max(acc.bottom, h)
		}
	}
	if sp.Left > 0 {
		w, h := overlap(m, 0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
		if h > 0 {
			acc.left = max(acc.left, w)
		}
	}
	if sp.Right > 0 {
		w, h := overlap(m, rootW-int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY)+1)
		if h > 0 {
			acc.right = max(acc.right, w)
		}
	}
}

// overlap returns the size of the intersection of m with [x1,x2)×[y1,y2).
func overlap(m Monitor, x1, y1, x2, y2 int) (int, int) {
	ix1 := max(m.X, x1)
	iy1 := max(m.Y, y1)
	ix2 := min(m.X+m.Width, x2)
	iy2 := min(m.Y+m.Height, y2)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0, 0
	}
	return ix2 - ix1, iy2 - iy1
}

func intersectMonitor(m Monitor, x, y, w, h int) (Monitor, bool) {
	ix1 := max(m.X, x)
	iy1 := max(m.Y, y)
	ix2 := min(m.X+m.Width, x+w)
	iy2 := min(m.Y+m.Height, y+h)
	if ix2 <= ix1 || iy2 <= iy1 {
		return m, false
	}
	m.X, m.Y, m.Width, m.Height = ix1, iy1, ix2-ix1, iy2-iy1
	return m, true
}
