package input

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/1broseidon/scrollwm/internal/wm"
)

// Commands is the part of the window manager key bindings drive.
type Commands interface {
	Navigate(d wm.Direction) error
	NavigateFirst() error
	NavigateLast() error
	MoveWindow(d wm.Direction) error
	NavigateMonitor(d wm.Direction, a wm.Activation) error
	MoveWindowToMonitor(d wm.Direction, a wm.Activation) error
	CloseActiveWindow() error
}

var _ Commands = (*wm.Manager)(nil)

// Spawner starts helper processes without waiting for them.
type Spawner interface {
	Spawn(argv []string) error
}

// Dispatcher resolves key presses against a Table and runs the bound
// action.
type Dispatcher struct {
	table   *Table
	cmds    Commands
	spawner Spawner
	logger  *slog.Logger
	ignored ModSet
}

// NewDispatcher creates a dispatcher. A nil spawner runs commands with
// ExecSpawner.
func NewDispatcher(table *Table, cmds Commands, spawner Spawner, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if spawner == nil {
		spawner = &ExecSpawner{Logger: logger}
	}
	return &Dispatcher{table: table, cmds: cmds, spawner: spawner, logger: logger}
}

// SetTable swaps in a new binding table.
func (d *Dispatcher) SetTable(t *Table) { d.table = t }

// Table returns the current binding table.
func (d *Dispatcher) Table() *Table { return d.table }

// SetIgnored drops the given lock modifiers from key events before
// matching. By default nothing is ignored and a held Caps Lock or Num Lock
// prevents a match like any other extra modifier.
func (d *Dispatcher) SetIgnored(mods ModSet) { d.ignored = mods }

// HandleKey runs the action bound to key with exactly the held modifiers.
// It reports false when nothing is bound so the caller can pass the event
// on.
func (d *Dispatcher) HandleKey(key string, mods ModSet) bool {
	chord := Chord{Key: key, Mods: mods & Tracked &^ d.ignored}
	b, ok := d.table.Lookup(chord)
	if !ok {
		return false
	}
	d.logger.Debug("key binding", "chord", chord, "action", b.Action)
	if err := d.run(b); err != nil {
		d.logger.Warn("key binding failed", "chord", chord, "action", b.Action, "error", err)
	}
	return true
}

func (d *Dispatcher) run(b Binding) error {
	switch b.Action {
	case NavigateLeft:
		return d.cmds.Navigate(wm.Left)
	case NavigateRight:
		return d.cmds.Navigate(wm.Right)
	case NavigateFirst:
		return d.cmds.NavigateFirst()
	case NavigateLast:
		return d.cmds.NavigateLast()
	case MoveWindowLeft:
		return d.cmds.MoveWindow(wm.Left)
	case MoveWindowRight:
		return d.cmds.MoveWindow(wm.Right)
	case NavigateMonitorLeft:
		return d.cmds.NavigateMonitor(wm.Left, wm.LastActive)
	case NavigateMonitorRight:
		return d.cmds.NavigateMonitor(wm.Right, wm.LastActive)
	case MoveWindowMonitorLeft:
		return d.cmds.MoveWindowToMonitor(wm.Left, wm.LastActive)
	case MoveWindowMonitorRight:
		return d.cmds.MoveWindowToMonitor(wm.Right, wm.LastActive)
	case CloseWindow:
		return d.cmds.CloseActiveWindow()
	case Spawn:
		return d.spawner.Spawn(b.Command)
	}
	return nil
}

// ExecSpawner starts commands as detached child processes and reaps them in
// the background.
type ExecSpawner struct {
	Logger *slog.Logger
}

func (s *ExecSpawner) Spawn(argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s: %w", argv[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil && s.Logger != nil {
			s.Logger.Warn("spawned command failed", "command", argv[0], "error", err)
		}
	}()
	return nil
}
