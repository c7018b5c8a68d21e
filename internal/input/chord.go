// Package input maps key presses to window-management commands through a
// data-driven binding table.
package input

import (
	"fmt"
	"strings"
)

// ModSet is a set of held modifier keys. Bits follow the X11 core protocol
// modifier masks so event state can be converted directly.
type ModSet uint16

const (
	Shift   ModSet = 1 << 0
	Lock    ModSet = 1 << 1
	Control ModSet = 1 << 2
	Mod1    ModSet = 1 << 3 // Alt
	Mod2    ModSet = 1 << 4 // Num Lock
	Mod4    ModSet = 1 << 6 // Logo
)

// Tracked holds every modifier that takes part in matching. Anything else in
// an event's state (pointer buttons, Mod3, Mod5) is dropped.
const Tracked = Shift | Lock | Control | Mod1 | Mod2 | Mod4

var modNames = []struct {
	mod  ModSet
	name string
}{
	{Mod4, "Mod4"},
	{Control, "Control"},
	{Mod1, "Mod1"},
	{Shift, "Shift"},
	{Lock, "Lock"},
	{Mod2, "Mod2"},
}

var modAliases = map[string]ModSet{
	"shift":   Shift,
	"lock":    Lock,
	"caps":    Lock,
	"control": Control,
	"ctrl":    Control,
	"mod1":    Mod1,
	"alt":     Mod1,
	"mod2":    Mod2,
	"num":     Mod2,
	"mod4":    Mod4,
	"super":   Mod4,
	"logo":    Mod4,
	"win":     Mod4,
}

// String renders the set in key-string order, e.g. "Mod4-Control".
func (m ModSet) String() string {
	parts := make([]string, 0, len(modNames))
	for _, n := range modNames {
		if m&n.mod != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "-")
}

// Chord is a key symbol together with the exact modifier set that must be
// held for it to match.
type Chord struct {
	Key  string
	Mods ModSet
}

// String renders the chord in the syntax accepted by ParseChord and by
// xgbutil's keybind package.
func (c Chord) String() string {
	if c.Mods == 0 {
		return c.Key
	}
	return c.Mods.String() + "-" + c.Key
}

// ParseChord parses a key string such as "Mod4-Control-Left". Modifier names
// are case-insensitive and accept the common aliases (Ctrl, Alt, Super,
// Logo). The key symbol keeps its case.
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, fmt.Errorf("empty key string")
	}
	parts := strings.Split(s, "-")
	key := parts[len(parts)-1]
	if key == "" {
		return Chord{}, fmt.Errorf("key string %q has no key", s)
	}

	var mods ModSet
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modAliases[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("key string %q: unknown modifier %q", s, p)
		}
		if mods&mod != 0 {
			return Chord{}, fmt.Errorf("key string %q: modifier %q repeated", s, p)
		}
		mods |= mod
	}
	return Chord{Key: key, Mods: mods}, nil
}
