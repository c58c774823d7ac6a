// Package hotkeys binds global X11 key sequences to wingrid actions.
package hotkeys

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"

	"github.com/1broseidon/wingrid/internal/x11"
)

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *zap.Logger
}

var initOnce sync.Once

// NewHandler prepares conn for key grabs.
func NewHandler(conn *x11.Connection, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	initOnce.Do(func() {
		keybind.Initialize(conn.XUtil)
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		xu:     conn.XUtil,
		root:   conn.Root,
		logger: logger,
	}
}

// Register binds keySequence (e.g. "Mod4-Mod1-g") to action. The action
// runs off the X event loop; presses that arrive while it is still
// running are dropped.
func (h *Handler) Register(keySequence string, action func()) error {
	if keySequence == "" {
		return fmt.Errorf("empty key sequence")
	}

	var running atomic.Bool
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if !running.CompareAndSwap(false, true) {
			h.logger.Debug("hotkey ignored, action still running", zap.String("keys", keySequence))
			return
		}
		h.logger.Info("hotkey triggered", zap.String("keys", keySequence))
		go func() {
			defer running.Store(false)
			action()
		}()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", keySequence, err)
	}
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = ignoreMasks(
		uint16(xproto.ModMaskLock),
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a binding fires regardless of CapsLock/NumLock/ScrollLock.
// Zero or duplicate masks are skipped.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
