package wm

import (
	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/platform"
)

// OutputAdded creates a monitor for a new output and gives it a spare
// workspace. An output that is already known only has its extents updated.
func (m *Manager) OutputAdded(out platform.Output) MonitorID {
	if mon, ok := m.MonitorByOutput(out.Handle); ok {
		if err := m.OutputChanged(mon.ID, out.Bounds); err != nil {
			m.logger.Warn("update known output failed", "monitor", mon.ID, "error", err)
		}
		return mon.ID
	}

	wsID := m.SpareWorkspace()
	mon := &Monitor{
		ID:        m.monitorIDs.Next(),
		Workspace: wsID,
		Output:    out.Handle,
		Name:      out.Name,
		Extents:   out.Bounds,
	}
	m.monitors[mon.ID] = mon
	m.workspaces[wsID].Monitor = mon.ID

	m.logger.Info("monitor added", "monitor", mon.ID, "name", mon.Name, "extents", mon.Extents, "workspace", wsID)
	if err := m.Arrange(wsID); err != nil {
		m.logger.Warn("arrange new monitor failed", "monitor", mon.ID, "error", err)
	}
	return mon.ID
}

// OutputChanged updates a monitor's extents and re-arranges its workspace.
func (m *Manager) OutputChanged(id MonitorID, bounds geometry.Rect) error {
	mon, ok := m.monitors[id]
	if !ok {
		return monitorNotFound(id)
	}
	if mon.Extents == bounds {
		return nil
	}
	mon.Extents = bounds
	return m.Arrange(mon.Workspace)
}

// OutputRemoved deletes a monitor and detaches its workspace, which stays in
// the store as a spare. If the detached workspace was active, the leftmost
// remaining monitor's workspace takes over.
func (m *Manager) OutputRemoved(id MonitorID) error {
	mon, ok := m.monitors[id]
	if !ok {
		return monitorNotFound(id)
	}
	if ws, ok := m.workspaces[mon.Workspace]; ok && ws.Monitor == id {
		ws.Monitor = 0
	}
	delete(m.monitors, id)
	m.logger.Info("monitor removed", "monitor", id, "workspace", mon.Workspace)

	if m.activeWorkspace != mon.Workspace {
		return nil
	}
	mons := m.sortedMonitors()
	if len(mons) == 0 {
		return nil
	}
	m.activeWorkspace = mons[0].Workspace
	m.newWindowWorkspace = mons[0].Workspace
	return m.Arrange(m.activeWorkspace)
}

// SurfaceMapped wraps a newly mapped surface in a window placed on the
// new-window workspace.
func (m *Manager) SurfaceMapped(h platform.SurfaceHandle, state platform.SurfaceState) (WindowID, error) {
	if w, ok := m.WindowBySurface(h); ok {
		return w.ID, nil
	}
	w := &Window{
		Workspace: m.newWindowWorkspace,
		Surface:   h,
		View:      state,
	}
	id, err := m.AddWindow(w)
	if err != nil {
		return 0, err
	}
	m.logger.Debug("window mapped", "window", id, "app_id", state.AppID, "workspace", w.Workspace, "tiled", m.isTiled(w))
	return id, nil
}

// SurfaceReady focuses a freshly mapped window and lays out its workspace.
func (m *Manager) SurfaceReady(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	if err := m.FocusWindow(id); err != nil {
		return err
	}
	return m.Arrange(w.Workspace)
}

// SurfaceUnmapped forgets a destroyed surface and closes the gap it leaves.
func (m *Manager) SurfaceUnmapped(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	wsID := w.Workspace
	if err := m.DeleteWindow(id); err != nil {
		return err
	}
	m.logger.Debug("window unmapped", "window", id, "workspace", wsID)
	return m.Arrange(wsID)
}

// SurfaceCommitted records new surface state. A serial at or after the
// pending resize's serial acknowledges it; older acknowledgements leave a
// newer request pending. The workspace is re-arranged when the window's
// size or tiling status changed.
func (m *Manager) SurfaceCommitted(id WindowID, state platform.SurfaceState, serial platform.Serial) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	wasTiled := m.isTiled(w)
	oldSize := w.Rendered().Size()

	w.View = state
	if w.pending.active && serial >= w.pending.serial {
		w.pending = pendingResize{}
	}

	if wasTiled == m.isTiled(w) && oldSize == w.Rendered().Size() {
		return nil
	}
	return m.Arrange(w.Workspace)
}

// FocusGained activates the window the collaborator focused and scrolls its
// workspace to show it.
func (m *Manager) FocusGained(id WindowID) error {
	if err := m.ActivateWindow(id); err != nil {
		return err
	}
	w := m.windows[id]
	ws := m.workspaces[w.Workspace]
	if m.isTiled(w) {
		m.ensureVisible(ws, w)
	}
	m.applyPositions(ws, m.tiledWindows(ws))
	return nil
}
