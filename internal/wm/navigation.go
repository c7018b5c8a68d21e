package wm

import (
	"cmp"
	"fmt"
	"slices"
)

// Direction is a horizontal step along the strip or across monitors.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// step returns i moved one position in direction d.
func (d Direction) step(i int) int {
	if d == Left {
		return i - 1
	}
	return i + 1
}

// Activation selects which window receives focus after a monitor change.
type Activation int

const (
	// LastActive prefers the target workspace's active window, falling back
	// to its last window.
	LastActive Activation = iota
	// FromDirection picks the window at the edge facing the direction of
	// travel: the last window when moving left, the first when moving right.
	FromDirection
)

func (a Activation) String() string {
	if a == LastActive {
		return "last-active"
	}
	return "from-direction"
}

// tiledNeighbor returns the tiled window next to id in direction d. There is
// no neighbor past either end of the strip; the search never wraps.
func (m *Manager) tiledNeighbor(id WindowID, d Direction) (WindowID, bool) {
	w, ok := m.windows[id]
	if !ok {
		return 0, false
	}
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		return 0, false
	}
	tiled := m.tiledWindows(ws)
	i := slices.Index(tiled, id)
	if i < 0 {
		return 0, false
	}
	j := d.step(i)
	if j < 0 || j >= len(tiled) {
		return 0, false
	}
	return tiled[j], true
}

// focusedTiled returns the focused window if it is tiled.
func (m *Manager) focusedTiled() (*Window, bool) {
	w, ok := m.windows[m.activeWindow]
	if !ok || !m.isTiled(w) {
		return nil, false
	}
	return w, true
}

// Navigate moves focus to the neighboring tiled window, continuing onto the
// next monitor at the end of the strip. Without a focused window it focuses
// the first (Left) or last (Right) tiled window of the active workspace.
func (m *Manager) Navigate(d Direction) error {
	if _, ok := m.windows[m.activeWindow]; !ok {
		if d == Left {
			return m.NavigateFirst()
		}
		return m.NavigateLast()
	}
	w, ok := m.focusedTiled()
	if !ok {
		return nil
	}
	if n, ok := m.tiledNeighbor(w.ID, d); ok {
		return m.FocusWindow(n)
	}
	return m.NavigateMonitor(d, FromDirection)
}

// NavigateFirst focuses the first tiled window of the active workspace.
func (m *Manager) NavigateFirst() error {
	tiled := m.TiledWindows(m.activeWorkspace)
	if len(tiled) == 0 {
		return nil
	}
	return m.FocusWindow(tiled[0])
}

// NavigateLast focuses the last tiled window of the active workspace.
func (m *Manager) NavigateLast() error {
	tiled := m.TiledWindows(m.activeWorkspace)
	if len(tiled) == 0 {
		return nil
	}
	return m.FocusWindow(tiled[len(tiled)-1])
}

// MoveWindow swaps the focused tiled window with its neighbor, or carries it
// to the adjacent monitor when it is already at the end of the strip.
func (m *Manager) MoveWindow(d Direction) error {
	w, ok := m.focusedTiled()
	if !ok {
		return nil
	}
	moved, err := m.ReorderWindow(w.ID, d)
	if err != nil || moved {
		return err
	}
	return m.MoveWindowToMonitor(d, FromDirection)
}

// ReorderWindow swaps a tiled window with its tiled neighbor in direction d
// and re-arranges the workspace. It reports false, changing nothing, when
// the window has no neighbor that way.
func (m *Manager) ReorderWindow(id WindowID, d Direction) (bool, error) {
	w, ok := m.windows[id]
	if !ok {
		return false, windowNotFound(id)
	}
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		return false, workspaceNotFound(w.Workspace)
	}
	n, ok := m.tiledNeighbor(id, d)
	if !ok {
		return false, nil
	}
	if !ws.swap(id, n) {
		return false, invariantf("windows %d and %d not both in workspace %d", id, n, ws.ID)
	}
	return true, m.Arrange(ws.ID)
}

// sortedMonitors orders monitors by their left edge, then by id.
func (m *Manager) sortedMonitors() []*Monitor {
	mons := make([]*Monitor, 0, len(m.monitors))
	for _, mon := range m.monitors {
		mons = append(mons, mon)
	}
	slices.SortFunc(mons, func(a, b *Monitor) int {
		if c := cmp.Compare(a.Extents.Left(), b.Extents.Left()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return mons
}

// adjacentMonitor returns the monitor one step from from in direction d.
func (m *Manager) adjacentMonitor(from MonitorID, d Direction) (*Monitor, error) {
	mons := m.sortedMonitors()
	i := slices.IndexFunc(mons, func(mon *Monitor) bool { return mon.ID == from })
	if i < 0 {
		return nil, monitorNotFound(from)
	}
	j := d.step(i)
	if j < 0 || j >= len(mons) {
		return nil, nil
	}
	return mons[j], nil
}

// NavigateMonitor makes the adjacent monitor's workspace active and focuses
// one of its windows according to the activation policy.
func (m *Manager) NavigateMonitor(d Direction, a Activation) error {
	ws, ok := m.workspaces[m.activeWorkspace]
	if !ok {
		return workspaceNotFound(m.activeWorkspace)
	}
	if ws.Monitor == 0 {
		m.logger.Debug("active workspace is not on a monitor", "workspace", ws.ID)
		return nil
	}
	target, err := m.adjacentMonitor(ws.Monitor, d)
	if err != nil || target == nil {
		return err
	}
	to, ok := m.workspaces[target.Workspace]
	if !ok {
		return workspaceNotFound(target.Workspace)
	}

	m.activeWorkspace = to.ID
	m.newWindowWorkspace = to.ID

	if id := pickWindow(to, d, a); id != 0 {
		return m.FocusWindow(id)
	}
	return nil
}

func pickWindow(ws *Workspace, d Direction, a Activation) WindowID {
	if len(ws.Windows) == 0 {
		return 0
	}
	switch {
	case a == LastActive && ws.ActiveWindow != 0:
		return ws.ActiveWindow
	case a == FromDirection && d == Right:
		return ws.Windows[0]
	default:
		return ws.Windows[len(ws.Windows)-1]
	}
}

// MoveWindowToMonitor carries the focused tiled window onto the workspace of
// the adjacent monitor. The window lands after the target's active window
// (LastActive) or at the edge it arrives from (FromDirection). Both
// workspaces are re-arranged.
func (m *Manager) MoveWindowToMonitor(d Direction, a Activation) error {
	w, ok := m.focusedTiled()
	if !ok {
		return nil
	}
	from, ok := m.workspaces[w.Workspace]
	if !ok {
		return workspaceNotFound(w.Workspace)
	}
	if from.Monitor == 0 {
		m.logger.Debug("focused window's workspace is not on a monitor", "window", w.ID, "workspace", from.ID)
		return nil
	}
	target, err := m.adjacentMonitor(from.Monitor, d)
	if err != nil || target == nil {
		return err
	}
	to, ok := m.workspaces[target.Workspace]
	if !ok {
		return workspaceNotFound(target.Workspace)
	}
	if to.ID == from.ID {
		return invariantf("monitors %d and %d share workspace %d", from.Monitor, target.ID, to.ID)
	}

	at := insertionIndex(to, d, a)
	if err := m.RemoveWindowFromWorkspace(w.ID); err != nil {
		return fmt.Errorf("detach window %d: %w", w.ID, err)
	}
	to.insertAt(at, w.ID)
	w.Workspace = to.ID
	m.activate(w)
	m.newWindowWorkspace = to.ID

	if err := m.Arrange(to.ID); err != nil {
		return err
	}
	return m.Arrange(from.ID)
}

func insertionIndex(ws *Workspace, d Direction, a Activation) int {
	switch {
	case a == LastActive:
		if i := ws.indexOf(ws.ActiveWindow); ws.ActiveWindow != 0 && i >= 0 {
			return i + 1
		}
		return len(ws.Windows)
	case d == Right:
		return 0
	default:
		return len(ws.Windows)
	}
}

// CloseActiveWindow asks the focused window's client to close.
func (m *Manager) CloseActiveWindow() error {
	w, ok := m.windows[m.activeWindow]
	if !ok {
		return nil
	}
	if err := m.backend.RequestClose(w.Surface); err != nil {
		return fmt.Errorf("close window %d: %w", w.ID, err)
	}
	return nil
}
