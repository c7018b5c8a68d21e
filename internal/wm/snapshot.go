package wm

import (
	"slices"

	"github.com/1broseidon/scrollwm/internal/geometry"
)

// Snapshot is a read-only copy of the store, safe to hand to another
// goroutine.
type Snapshot struct {
	ActiveWindow       WindowID
	ActiveWorkspace    WorkspaceID
	NewWindowWorkspace WorkspaceID
	Monitors           []MonitorSnapshot
	Workspaces         []WorkspaceSnapshot
}

type MonitorSnapshot struct {
	ID        MonitorID
	Name      string
	Extents   geometry.Rect
	Workspace WorkspaceID
}

type WorkspaceSnapshot struct {
	ID           WorkspaceID
	Monitor      MonitorID
	ScrollLeft   int
	ActiveWindow WindowID
	Windows      []WindowSnapshot
}

type WindowSnapshot struct {
	ID       WindowID
	AppID    string
	Title    string
	Tiled    bool
	Rendered geometry.Rect
}

// Snapshot copies the current store. Monitors are ordered left to right and
// workspaces by id; each workspace lists its windows in strip order.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		ActiveWindow:       m.activeWindow,
		ActiveWorkspace:    m.activeWorkspace,
		NewWindowWorkspace: m.newWindowWorkspace,
	}
	for _, mon := range m.sortedMonitors() {
		s.Monitors = append(s.Monitors, MonitorSnapshot{
			ID:        mon.ID,
			Name:      mon.Name,
			Extents:   mon.Extents,
			Workspace: mon.Workspace,
		})
	}
	ids := make([]WorkspaceID, 0, len(m.workspaces))
	for id := range m.workspaces {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		ws := m.workspaces[id]
		wss := WorkspaceSnapshot{
			ID:           ws.ID,
			Monitor:      ws.Monitor,
			ScrollLeft:   ws.ScrollLeft,
			ActiveWindow: ws.ActiveWindow,
		}
		for _, wid := range ws.Windows {
			w, ok := m.windows[wid]
			if !ok {
				continue
			}
			wss.Windows = append(wss.Windows, WindowSnapshot{
				ID:       w.ID,
				AppID:    w.View.AppID,
				Title:    w.View.Title,
				Tiled:    m.isTiled(w),
				Rendered: w.Rendered(),
			})
		}
		s.Workspaces = append(s.Workspaces, wss)
	}
	return s
}

// Workspace returns the snapshot of the workspace with the given id.
func (s Snapshot) Workspace(id WorkspaceID) (WorkspaceSnapshot, bool) {
	i := slices.IndexFunc(s.Workspaces, func(ws WorkspaceSnapshot) bool { return ws.ID == id })
	if i < 0 {
		return WorkspaceSnapshot{}, false
	}
	return s.Workspaces[i], true
}
