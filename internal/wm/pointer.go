package wm

import "github.com/1broseidon/scrollwm/internal/geometry"

// PointerMotion tracks the pointer. The monitor under it becomes the active
// one, and an in-progress gesture is advanced. It reports whether the motion
// was consumed by a gesture.
func (m *Manager) PointerMotion(p geometry.Point) bool {
	for _, mon := range m.sortedMonitors() {
		if !mon.Extents.Contains(p) {
			continue
		}
		if mon.Workspace != m.activeWorkspace {
			m.activeWorkspace = mon.Workspace
			m.newWindowWorkspace = mon.Workspace
		}
		break
	}

	consumed := false
	switch m.gesture.Kind {
	case GestureMove:
		m.dragTo(p)
		consumed = true
	case GestureResize:
		m.resizeBy(p.Sub(m.cursor))
		consumed = true
	}
	m.cursor = p
	return consumed
}

// BeginMove starts dragging a window. The pointer position is the one last
// reported through PointerMotion.
func (m *Manager) BeginMove(id WindowID) error {
	return m.beginGesture(id, GestureMove, 0)
}

// BeginResize starts resizing a window by the given edges.
func (m *Manager) BeginResize(id WindowID, edges Edges) error {
	return m.beginGesture(id, GestureResize, edges)
}

func (m *Manager) beginGesture(id WindowID, kind GestureKind, edges Edges) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	r := w.Rendered()
	m.gesture = Gesture{
		Kind:    kind,
		Window:  id,
		Edges:   edges,
		TopLeft: r.TopLeft(),
		Size:    w.layoutSize(),
	}
	if m.activeWindow != id {
		return m.FocusWindow(id)
	}
	return nil
}

// EndGesture finishes the current gesture and snaps the window back into
// the strip.
func (m *Manager) EndGesture() error {
	g := m.gesture
	m.gesture = Gesture{}
	if g.Kind == GestureNone {
		return nil
	}
	w, ok := m.windows[g.Window]
	if !ok {
		return nil
	}
	w.Dragged = false
	return m.Arrange(w.Workspace)
}

// dragTo advances a move gesture. Near the top of the layout the drag
// scrolls the workspace; elsewhere the window follows the pointer and swaps
// places with a neighbor once the pointer passes the swap threshold.
func (m *Manager) dragTo(p geometry.Point) {
	w, ok := m.windows[m.gesture.Window]
	if !ok {
		m.gesture = Gesture{}
		return
	}
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		m.gesture = Gesture{}
		return
	}
	d := p.Sub(m.cursor)

	if p.Y < m.dragScrollZone {
		w.Dragged = false
		ws.ScrollLeft -= d.DX
		if err := m.FocusWindow(w.ID); err != nil {
			m.logger.Warn("focus during drag failed", "window", w.ID, "error", err)
		}
		if err := m.Arrange(ws.ID); err != nil {
			m.logger.Warn("arrange during drag failed", "workspace", ws.ID, "error", err)
		}
		return
	}

	w.Dragged = true
	if d != (geometry.Displacement{}) {
		m.moveTo(w, w.Rendered().TopLeft().Add(d))
	}
	if !m.isTiled(w) {
		return
	}

	width := w.Width()
	if n, ok := m.tiledNeighbor(w.ID, Left); ok {
		left := m.windows[n].Rendered()
		if p.X < left.X+left.Width/2+width/2 {
			m.reorderDuringDrag(w.ID, Left)
			return
		}
	}
	if n, ok := m.tiledNeighbor(w.ID, Right); ok {
		right := m.windows[n].Rendered()
		if p.X > right.X+right.Width/2-width/2 {
			m.reorderDuringDrag(w.ID, Right)
		}
	}
}

func (m *Manager) reorderDuringDrag(id WindowID, d Direction) {
	if _, err := m.ReorderWindow(id, d); err != nil {
		m.logger.Warn("reorder during drag failed", "window", id, "direction", d, "error", err)
	}
}

// resizeBy applies one pointer step of a resize gesture to the grabbed
// edges, within the window's size hints. Growing a tiled window
// leftward scrolls its workspace so the right edge stays put.
func (m *Manager) resizeBy(d geometry.Displacement) {
	g := &m.gesture
	w, ok := m.windows[g.Window]
	if !ok {
		m.gesture = Gesture{}
		return
	}
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		m.gesture = Gesture{}
		return
	}
	tiled := m.isTiled(w)

	pos, size := g.TopLeft, g.Size
	if g.Edges&EdgeRight != 0 {
		size.Width = clampSize(g.Size.Width+d.DX, w.MinWidth(), w.MaxWidth())
	}
	if g.Edges&EdgeLeft != 0 {
		requested := g.Size.Width - d.DX
		size.Width = clampSize(requested, w.MinWidth(), w.MaxWidth())
		pos.X = g.TopLeft.X + d.DX + (requested - size.Width)
		if tiled {
			ws.ScrollLeft -= d.DX
		}
	}
	if g.Edges&EdgeBottom != 0 {
		size.Height = clampSize(g.Size.Height+d.DY, w.MinHeight(), w.MaxHeight())
	}
	if g.Edges&EdgeTop != 0 {
		requested := g.Size.Height - d.DY
		size.Height = clampSize(requested, w.MinHeight(), w.MaxHeight())
		pos.Y = g.TopLeft.Y + d.DY + (requested - size.Height)
	}

	if size != g.Size {
		m.resizeTo(w, size)
	}
	if tiled {
		if pos != g.TopLeft || size != g.Size {
			if err := m.Arrange(ws.ID); err != nil {
				m.logger.Warn("arrange during resize failed", "workspace", ws.ID, "error", err)
			}
		}
	} else if pos != g.TopLeft {
		m.moveTo(w, pos)
	}
	if m.activeWindow != w.ID {
		if err := m.FocusWindow(w.ID); err != nil {
			m.logger.Warn("focus during resize failed", "window", w.ID, "error", err)
		}
	}
	g.TopLeft, g.Size = pos, size
}

func clampSize(v, lo, hi int) int {
	return max(min(v, hi), lo, 1)
}
