package wm

import (
	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/tiling"
)

// Arrange recomputes the strip positions of a workspace, scrolls it so the
// focused window is visible, and pushes changed geometry to the collaborator.
func (m *Manager) Arrange(id WorkspaceID) error {
	ws, ok := m.workspaces[id]
	if !ok {
		return workspaceNotFound(id)
	}
	tiled := m.tiledWindows(ws)
	if len(tiled) == 0 {
		return nil
	}

	m.updateCachedPositions(ws, tiled)
	if w, ok := m.windows[m.activeWindow]; ok && w.Workspace == id && m.isTiled(w) {
		m.ensureVisible(ws, w)
	}
	m.applyPositions(ws, tiled)
	return nil
}

// ArrangeActive arranges the active workspace.
func (m *Manager) ArrangeActive() error {
	return m.Arrange(m.activeWorkspace)
}

// ArrangeAll arranges every workspace shown on a monitor.
func (m *Manager) ArrangeAll() {
	for _, id := range m.Monitors() {
		if err := m.Arrange(m.monitors[id].Workspace); err != nil {
			m.logger.Warn("arrange failed", "monitor", id, "error", err)
		}
	}
}

// EnsureVisible scrolls the window's workspace so the window's cached strip
// slot lies within its monitor.
func (m *Manager) EnsureVisible(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		return workspaceNotFound(w.Workspace)
	}
	m.ensureVisible(ws, w)
	return nil
}

func (m *Manager) updateCachedPositions(ws *Workspace, tiled []WindowID) {
	var extents *geometry.Rect
	if mon, ok := m.MonitorByWorkspace(ws.ID); ok {
		extents = &mon.Extents
	}

	items := make([]tiling.Item, len(tiled))
	for i, id := range tiled {
		w := m.windows[id]
		size := w.layoutSize()
		items[i] = tiling.Item{
			Width:     size.Width,
			Height:    size.Height,
			MaxHeight: w.MaxHeight(),
			Y:         w.Rendered().Y,
		}
	}

	for i, slot := range tiling.Strip(items, extents) {
		m.windows[tiled[i]].WorkspaceGeo = slot.Rect()
	}
}

func (m *Manager) ensureVisible(ws *Workspace, w *Window) {
	mon, ok := m.MonitorByWorkspace(ws.ID)
	if !ok {
		m.logger.Debug("ensure visible on window without monitor", "window", w.ID, "workspace", ws.ID)
		return
	}
	ws.ScrollLeft = tiling.Reveal(ws.ScrollLeft, w.WorkspaceGeo.X, w.WorkspaceGeo.Width, mon.Extents)
}

func (m *Manager) applyPositions(ws *Workspace, tiled []WindowID) {
	for _, id := range tiled {
		w := m.windows[id]
		if w.Dragged {
			continue
		}
		target := w.WorkspaceGeo.Translate(geometry.Displacement{DX: -ws.ScrollLeft})
		m.resizeTo(w, target.Size())
		if target.TopLeft() != w.Rendered().TopLeft() {
			m.moveTo(w, target.TopLeft())
		}
	}
}

// layoutSize is the content size the layout should assume: the size of a
// pending resize if one is in flight, the rendered size otherwise.
func (w *Window) layoutSize() geometry.Size {
	if w.pending.active {
		return w.pending.size
	}
	return w.Rendered().Size()
}

// resizeTo requests a content size change unless the window already has, or
// is already waiting for, that size.
func (m *Manager) resizeTo(w *Window, size geometry.Size) {
	if w.pending.active {
		if w.pending.size == size {
			return
		}
	} else if w.Rendered().Size() == size {
		return
	}

	serial, err := m.backend.RequestResize(w.Surface, w.shadowed().BoxSizeFor(size))
	if err != nil {
		m.logger.Warn("resize request failed", "window", w.ID, "size", size, "error", err)
		return
	}
	w.pending = pendingResize{active: true, serial: serial, size: size}
}

// moveTo places the window's visible content at p immediately.
func (m *Manager) moveTo(w *Window, p geometry.Point) {
	origin := w.shadowed().BoxOriginFor(p)
	m.backend.Damage(w.Surface)
	if err := m.backend.RequestMove(w.Surface, origin); err != nil {
		m.logger.Warn("move request failed", "window", w.ID, "to", p, "error", err)
		return
	}
	w.View.Box = w.View.Box.WithOrigin(origin)
	m.backend.Damage(w.Surface)
}
