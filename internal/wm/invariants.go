package wm

import (
	"errors"
	"maps"
	"slices"
)

// CheckInvariants verifies the cross-references between the stores and
// returns every violation found, joined.
func (m *Manager) CheckInvariants() error {
	var errs []error

	owner := make(map[WindowID]WorkspaceID, len(m.windows))
	for _, wsID := range slices.Sorted(maps.Keys(m.workspaces)) {
		ws := m.workspaces[wsID]
		for _, id := range ws.Windows {
			if prev, dup := owner[id]; dup {
				errs = append(errs, invariantf("window %d listed in workspaces %d and %d", id, prev, wsID))
				continue
			}
			owner[id] = wsID
			w, ok := m.windows[id]
			if !ok {
				errs = append(errs, invariantf("workspace %d lists unknown window %d", wsID, id))
				continue
			}
			if w.Workspace != wsID {
				errs = append(errs, invariantf("window %d points at workspace %d but is listed in %d", id, w.Workspace, wsID))
			}
		}
		if ws.ActiveWindow != 0 && ws.indexOf(ws.ActiveWindow) < 0 {
			errs = append(errs, invariantf("workspace %d active window %d not in its list", wsID, ws.ActiveWindow))
		}
		if ws.Monitor != 0 {
			mon, ok := m.monitors[ws.Monitor]
			if !ok {
				errs = append(errs, invariantf("workspace %d on unknown monitor %d", wsID, ws.Monitor))
			} else if mon.Workspace != wsID {
				errs = append(errs, invariantf("workspace %d on monitor %d which shows workspace %d", wsID, mon.ID, mon.Workspace))
			}
		}
	}

	for _, id := range m.Windows() {
		if _, ok := owner[id]; !ok {
			errs = append(errs, invariantf("window %d in no workspace", id))
		}
	}
	for _, id := range m.Monitors() {
		mon := m.monitors[id]
		ws, ok := m.workspaces[mon.Workspace]
		if !ok {
			errs = append(errs, invariantf("monitor %d shows unknown workspace %d", id, mon.Workspace))
		} else if ws.Monitor != id {
			errs = append(errs, invariantf("monitor %d shows workspace %d which is on monitor %d", id, ws.ID, ws.Monitor))
		}
	}

	if len(m.spareWorkspaces()) == 0 {
		errs = append(errs, invariantf("no spare workspace"))
	}
	if m.activeWindow != 0 {
		if _, ok := m.windows[m.activeWindow]; !ok {
			errs = append(errs, invariantf("active window %d not stored", m.activeWindow))
		}
	}
	if _, ok := m.workspaces[m.activeWorkspace]; !ok {
		errs = append(errs, invariantf("active workspace %d not stored", m.activeWorkspace))
	}
	if _, ok := m.workspaces[m.newWindowWorkspace]; !ok {
		errs = append(errs, invariantf("new window workspace %d not stored", m.newWindowWorkspace))
	}

	return errors.Join(errs...)
}
