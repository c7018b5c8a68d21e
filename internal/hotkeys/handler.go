// Package hotkeys grabs the configured key chords on the root window and
// reports presses as (key, modifier set) pairs.
package hotkeys

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/scrollwm/internal/input"
)

// PressFunc receives a grabbed key press. It runs on the X event goroutine.
type PressFunc func(key string, mods input.ModSet)

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	press  PressFunc
	logger *slog.Logger
}

// NewHandler creates a hotkey handler that reports presses to press.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, press PressFunc, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{xu: xu, root: root, press: press, logger: logger}
}

// Bind replaces all grabs with the chords in table. With ignoreLocks set,
// Caps Lock, Num Lock and Scroll Lock do not prevent a grab from firing.
// A chord whose key has no keycode on this keyboard is logged and skipped.
func (h *Handler) Bind(table *input.Table, ignoreLocks bool) error {
	keybind.Detach(h.xu, h.root)
	configureIgnoreMods(h.xu, ignoreLocks)

	var failed []string
	for _, b := range table.Bindings() {
		if err := h.grab(b.Chord); err != nil {
			h.logger.Warn("grab key failed", "chord", b.Chord, "action", b.Action, "error", err)
			failed = append(failed, b.Chord.String())
		}
	}
	if len(failed) == table.Len() && len(failed) > 0 {
		return fmt.Errorf("no key binding could be grabbed (tried %v)", failed)
	}
	return nil
}

func (h *Handler) grab(chord input.Chord) error {
	if len(keybind.StrToKeycodes(h.xu, chord.Key)) == 0 {
		return fmt.Errorf("unknown key %q", chord.Key)
	}
	key := chord.Key
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.press(key, input.ModSet(ev.State))
	}).Connect(h.xu, h.root, chord.String(), true)
}

func configureIgnoreMods(xu *xgbutil.XUtil, enabled bool) {
	if !enabled {
		xevent.IgnoreMods = []uint16{0}
		return
	}

	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if !slices.Contains(ignore, mask) {
			ignore = append(ignore, mask)
		}
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
