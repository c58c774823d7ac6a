package windows

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/detect"
	"github.com/1broseidon/wingrid/internal/platform"
	"github.com/1broseidon/wingrid/internal/toolexec"
)

// Actuator issues per-window commands. Every method is best-effort.
type Actuator struct {
	runner   toolexec.Runner
	timeouts Timeouts
	logger   *zap.Logger
}

// NewActuator creates an Actuator. A nil logger discards output.
func NewActuator(runner toolexec.Runner, timeouts Timeouts, logger *zap.Logger) *Actuator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actuator{runner: runner, timeouts: timeouts.orDefault(), logger: logger}
}

// Activate brings a window to the front. With xdotool the window is
// minimized, activated and raised as three synchronous steps so minimized
// windows are restored. Without it wmctrl activates by id, which may leave
// a minimized window iconified.
func (a *Actuator) Activate(id string) bool {
	if a.runner.Exists(detect.FocusTool) {
		a.runner.Run(a.timeouts.Action, detect.FocusTool, "windowminimize", "--sync", id)
		ok := a.runner.Run(a.timeouts.Action, detect.FocusTool, "windowactivate", "--sync", id).OK
		a.runner.Run(a.timeouts.Action, detect.FocusTool, "windowraise", id)
		a.logger.Debug("activated window", zap.String("window", id), zap.Bool("ok", ok))
		return ok
	}

	ok := a.wmctrl("-i", "-a", id)
	a.logger.Debug("activated window via wmctrl", zap.String("window", id), zap.Bool("ok", ok))
	return ok
}

// ArrangeOne clears both maximized states and then sets the exact
// geometry. Window managers ignore geometry on maximized windows, so the
// two steps are separate commands. It reports whether the move-resize
// command succeeded.
func (a *Actuator) ArrangeOne(id string, r platform.Rect) bool {
	a.wmctrl("-i", "-r", id, "-b", "remove,maximized_vert,maximized_horz")
	geom := fmt.Sprintf("0,%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
	ok := a.wmctrl("-i", "-r", id, "-e", geom)
	if !ok {
		a.logger.Debug("move-resize failed", zap.String("window", id), zap.String("geometry", geom))
	}
	return ok
}

// Close asks the window manager to close the window. Whether the window
// actually goes away is not checked, so it always reports true.
func (a *Actuator) Close(id string) bool {
	a.wmctrl("-i", "-c", id)
	return true
}

// Geometry reads a window's on-screen rectangle, preferring xdotool and
// falling back to wmctrl -lG.
func (a *Actuator) Geometry(id string) (platform.Rect, bool) {
	if a.runner.Exists(detect.FocusTool) {
		res := a.runner.Run(a.timeouts.Action, detect.FocusTool, "getwindowgeometry", "--shell", id)
		if r, ok := parseShellGeometry(res.Lines()); ok {
			return r, true
		}
	}
	res := a.runner.Run(a.timeouts.Action, detect.ListTool, "-lG")
	return findListGeometry(res.Lines(), id)
}

func (a *Actuator) wmctrl(args ...string) bool {
	return a.runner.Run(a.timeouts.Action, detect.ListTool, args...).OK
}

// parseShellGeometry reads X=, Y=, WIDTH= and HEIGHT= lines.
func parseShellGeometry(lines []string) (platform.Rect, bool) {
	var r platform.Rect
	seen := 0
	for _, line := range lines {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			r.X = n
		case "Y":
			r.Y = n
		case "WIDTH":
			r.Width = n
		case "HEIGHT":
			r.Height = n
		default:
			continue
		}
		seen++
	}
	if seen < 4 || r.Empty() {
		return platform.Rect{}, false
	}
	return r, true
}

// findListGeometry scans wmctrl -lG rows: <0xID> <desktop> <x> <y> <w> <h> ...
// Ids are compared numerically since wmctrl zero-pads them.
func findListGeometry(lines []string, id string) (platform.Rect, bool) {
	want, err := strconv.ParseUint(id, 0, 64)
	if err != nil {
		return platform.Rect{}, false
	}
	for _, line := range lines {
		f := strings.Fields(line)
		if len(f) < 6 {
			continue
		}
		got, err := strconv.ParseUint(f[0], 0, 64)
		if err != nil || got != want {
			continue
		}
		var nums [4]int
		valid := true
		for i := range nums {
			if nums[i], err = strconv.Atoi(f[2+i]); err != nil {
				valid = false
				break
			}
		}
		if !valid {
			return platform.Rect{}, false
		}
		r := platform.Rect{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
		if r.Empty() {
			return platform.Rect{}, false
		}
		return r, true
	}
	return platform.Rect{}, false
}
