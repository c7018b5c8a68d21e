package input

import (
	"fmt"
	"slices"
	"strings"
)

// Binding ties a chord to an action. Command is the argv run by Spawn.
type Binding struct {
	Chord   Chord
	Action  Action
	Command []string
}

// Table is an immutable lookup from exact chords to bindings.
type Table struct {
	bindings map[Chord]Binding
}

// NewTable builds a table, rejecting duplicate chords and spawn bindings
// without a command.
func NewTable(bindings []Binding) (*Table, error) {
	t := &Table{bindings: make(map[Chord]Binding, len(bindings))}
	for _, b := range bindings {
		if b.Action == ActionNone {
			return nil, fmt.Errorf("binding %s has no action", b.Chord)
		}
		if b.Action == Spawn && len(b.Command) == 0 {
			return nil, fmt.Errorf("binding %s: spawn requires a command", b.Chord)
		}
		if prev, dup := t.bindings[b.Chord]; dup {
			return nil, fmt.Errorf("binding %s: already bound to %s", b.Chord, prev.Action)
		}
		t.bindings[b.Chord] = b
	}
	return t, nil
}

// Lookup returns the binding for an exact chord.
func (t *Table) Lookup(c Chord) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	b, ok := t.bindings[c]
	return b, ok
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

// Bindings returns every binding ordered by action, then chord.
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	out := make([]Binding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Binding) int {
		if a.Action != b.Action {
			return int(a.Action) - int(b.Action)
		}
		return strings.Compare(a.Chord.String(), b.Chord.String())
	})
	return out
}

// DefaultBindings is the stock keyboard layout: Logo with the arrow keys
// navigates, Control moves the window, Shift crosses monitors.
func DefaultBindings() []Binding {
	logo := func(key string, extra ModSet) Chord { return Chord{Key: key, Mods: Mod4 | extra} }
	return []Binding{
		{Chord: logo("Home", 0), Action: NavigateFirst},
		{Chord: logo("End", 0), Action: NavigateLast},
		{Chord: logo("Left", 0), Action: NavigateLeft},
		{Chord: logo("Right", 0), Action: NavigateRight},
		{Chord: logo("Left", Control), Action: MoveWindowLeft},
		{Chord: logo("Right", Control), Action: MoveWindowRight},
		{Chord: logo("Left", Shift), Action: NavigateMonitorLeft},
		{Chord: logo("Right", Shift), Action: NavigateMonitorRight},
		{Chord: logo("Left", Control|Shift), Action: MoveWindowMonitorLeft},
		{Chord: logo("Right", Control|Shift), Action: MoveWindowMonitorRight},
		{Chord: logo("a", 0), Action: Spawn, Command: []string{"ulauncher-toggle"}},
		{Chord: logo("BackSpace", 0), Action: CloseWindow},
	}
}
