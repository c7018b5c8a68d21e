// Package wm is the window-management core: the store of monitors, workspaces
// and windows plus the arrangement and navigation logic that keeps them
// consistent. It is not safe for concurrent use; a single event loop owns it.
package wm

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/platform"
)

// Options tune policy that is not part of the model itself.
type Options struct {
	// ExcludedAppIDs never tile.
	ExcludedAppIDs []string
	// DragScrollZone is the height of the band at the top of the layout where
	// dragging a window scrolls its workspace instead of reordering.
	DragScrollZone int
}

// DefaultOptions returns the policy used when no configuration is supplied.
func DefaultOptions() Options {
	return Options{
		ExcludedAppIDs: []string{"ulauncher"},
		DragScrollZone: 100,
	}
}

// Manager owns every window, workspace and monitor.
type Manager struct {
	backend platform.Backend
	logger  *slog.Logger

	excluded       map[string]struct{}
	dragScrollZone int

	windowIDs    Generator[WindowID]
	workspaceIDs Generator[WorkspaceID]
	monitorIDs   Generator[MonitorID]

	windows    map[WindowID]*Window
	workspaces map[WorkspaceID]*Workspace
	monitors   map[MonitorID]*Monitor

	activeWindow       WindowID
	activeWorkspace    WorkspaceID
	newWindowWorkspace WorkspaceID

	gesture Gesture
	cursor  geometry.Point
}

// New creates a manager with one active spare workspace and one in reserve.
func New(backend platform.Backend, logger *slog.Logger, opts Options) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		backend:    backend,
		logger:     logger,
		windows:    make(map[WindowID]*Window),
		workspaces: make(map[WorkspaceID]*Workspace),
		monitors:   make(map[MonitorID]*Monitor),
	}
	m.SetOptions(opts)
	m.activeWorkspace = m.SpareWorkspace()
	m.newWindowWorkspace = m.activeWorkspace
	return m
}

// SetOptions replaces the policy options. Callers re-arrange afterwards if
// the excluded set changed.
func (m *Manager) SetOptions(opts Options) {
	m.excluded = make(map[string]struct{}, len(opts.ExcludedAppIDs))
	for _, id := range opts.ExcludedAppIDs {
		m.excluded[id] = struct{}{}
	}
	m.dragScrollZone = opts.DragScrollZone
}

// CreateWorkspace allocates an empty, unassigned workspace.
func (m *Manager) CreateWorkspace() WorkspaceID {
	ws := &Workspace{ID: m.workspaceIDs.Next()}
	m.workspaces[ws.ID] = ws
	return ws.ID
}

// SpareWorkspace returns the lowest-id workspace that is not on a monitor,
// creating workspaces so that another spare still exists once the caller
// claims the returned one.
func (m *Manager) SpareWorkspace() WorkspaceID {
	spares := m.spareWorkspaces()
	switch len(spares) {
	case 0:
		first := m.CreateWorkspace()
		m.CreateWorkspace()
		return first
	case 1:
		m.CreateWorkspace()
	}
	return spares[0]
}

func (m *Manager) spareWorkspaces() []WorkspaceID {
	var ids []WorkspaceID
	for id, ws := range m.workspaces {
		if ws.Spare() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// AddWindow stores w and inserts it into its workspace right after the
// focused window, or at the end when the focused window lives elsewhere.
// A zero w.ID is replaced with a fresh id. Toplevel windows are activated.
func (m *Manager) AddWindow(w *Window) (WindowID, error) {
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		return 0, workspaceNotFound(w.Workspace)
	}
	if w.ID == 0 {
		w.ID = m.windowIDs.Next()
	} else if _, exists := m.windows[w.ID]; exists {
		return 0, invariantf("window %d already stored", w.ID)
	}
	if w.WorkspaceGeo == (geometry.Rect{}) {
		w.WorkspaceGeo = w.Rendered()
	}

	if i := ws.indexOf(m.activeWindow); m.activeWindow != 0 && i >= 0 {
		ws.insertAt(i+1, w.ID)
	} else {
		ws.Windows = append(ws.Windows, w.ID)
	}
	m.windows[w.ID] = w

	if w.View.Toplevel {
		m.activate(w)
	}
	return w.ID, nil
}

// DeleteWindow removes the window from its workspace and from the store.
// Global focus is cleared if it pointed at the window; the collaborator is
// expected to report the next focused surface.
func (m *Manager) DeleteWindow(id WindowID) error {
	if err := m.RemoveWindowFromWorkspace(id); err != nil {
		return err
	}
	delete(m.windows, id)
	if m.activeWindow == id {
		m.activeWindow = 0
	}
	if m.gesture.Window == id {
		m.gesture = Gesture{}
	}
	return nil
}

// RemoveWindowFromWorkspace detaches a window from its workspace's strip.
// When the window was the workspace's active window a successor is chosen:
// the previous tiled window, else the next one, or the last tiled window if
// the removed window was not tiled itself.
func (m *Manager) RemoveWindowFromWorkspace(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	ws, ok := m.workspaces[w.Workspace]
	if !ok {
		return workspaceNotFound(w.Workspace)
	}
	raw := ws.indexOf(id)
	if raw < 0 {
		return invariantf("window %d missing from workspace %d", id, ws.ID)
	}

	if ws.ActiveWindow == id {
		ws.ActiveWindow = m.successor(ws, w)
	}
	ws.removeAt(raw)
	return nil
}

func (m *Manager) successor(ws *Workspace, w *Window) WindowID {
	tiled := m.tiledWindows(ws)
	if !m.isTiled(w) {
		if len(tiled) == 0 {
			return 0
		}
		return tiled[len(tiled)-1]
	}
	i := slices.Index(tiled, w.ID)
	if i > 0 {
		return tiled[i-1]
	}
	if i+1 < len(tiled) {
		return tiled[i+1]
	}
	return 0
}

// ActivateWindow makes the window its workspace's active window, the global
// focus and its workspace the active workspace.
func (m *Manager) ActivateWindow(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	if _, ok := m.workspaces[w.Workspace]; !ok {
		return workspaceNotFound(w.Workspace)
	}
	m.activate(w)
	return nil
}

func (m *Manager) activate(w *Window) {
	m.workspaces[w.Workspace].ActiveWindow = w.ID
	m.activeWindow = w.ID
	m.activeWorkspace = w.Workspace
}

// FocusWindow records the window as focused and asks the collaborator to give
// it keyboard focus. Activation follows when the collaborator confirms.
func (m *Manager) FocusWindow(id WindowID) error {
	w, ok := m.windows[id]
	if !ok {
		return windowNotFound(id)
	}
	m.activeWindow = id
	if err := m.backend.RequestFocus(w.Surface); err != nil {
		m.logger.Warn("focus request failed", "window", id, "error", err)
	}
	return nil
}

// Window returns the stored window with the given id.
func (m *Manager) Window(id WindowID) (*Window, bool) {
	w, ok := m.windows[id]
	return w, ok
}

// Workspace returns the stored workspace with the given id.
func (m *Manager) Workspace(id WorkspaceID) (*Workspace, bool) {
	ws, ok := m.workspaces[id]
	return ws, ok
}

// Monitor returns the stored monitor with the given id.
func (m *Manager) Monitor(id MonitorID) (*Monitor, bool) {
	mon, ok := m.monitors[id]
	return mon, ok
}

// WindowBySurface finds the window wrapping a collaborator surface.
func (m *Manager) WindowBySurface(h platform.SurfaceHandle) (*Window, bool) {
	for _, w := range m.windows {
		if w.Surface == h {
			return w, true
		}
	}
	return nil, false
}

// MonitorByOutput finds the monitor backed by a collaborator output.
func (m *Manager) MonitorByOutput(h platform.OutputHandle) (*Monitor, bool) {
	for _, mon := range m.monitors {
		if mon.Output == h {
			return mon, true
		}
	}
	return nil, false
}

// MonitorByWorkspace returns the monitor showing the workspace, if any.
func (m *Manager) MonitorByWorkspace(id WorkspaceID) (*Monitor, bool) {
	ws, ok := m.workspaces[id]
	if !ok || ws.Monitor == 0 {
		return nil, false
	}
	mon, ok := m.monitors[ws.Monitor]
	return mon, ok
}

// ActiveWindow returns the focused window id, or zero.
func (m *Manager) ActiveWindow() WindowID { return m.activeWindow }

// ActiveWorkspace returns the workspace receiving navigation commands.
func (m *Manager) ActiveWorkspace() WorkspaceID { return m.activeWorkspace }

// NewWindowWorkspace returns the workspace new surfaces are placed into.
func (m *Manager) NewWindowWorkspace() WorkspaceID { return m.newWindowWorkspace }

// Gesture returns the pointer interaction in progress.
func (m *Manager) Gesture() Gesture { return m.gesture }

// Windows returns all window ids in ascending order.
func (m *Manager) Windows() []WindowID {
	return slices.Sorted(maps.Keys(m.windows))
}

// Monitors returns all monitor ids in ascending order.
func (m *Manager) Monitors() []MonitorID {
	return slices.Sorted(maps.Keys(m.monitors))
}

// IsTiled reports whether the window takes part in the strip layout.
func (m *Manager) IsTiled(id WindowID) bool {
	w, ok := m.windows[id]
	return ok && m.isTiled(w)
}

func (m *Manager) isTiled(w *Window) bool {
	return w.Tileable(m.excluded)
}

// TiledWindows returns the tiled subsequence of a workspace's strip.
func (m *Manager) TiledWindows(id WorkspaceID) []WindowID {
	ws, ok := m.workspaces[id]
	if !ok {
		return nil
	}
	return m.tiledWindows(ws)
}

func (m *Manager) tiledWindows(ws *Workspace) []WindowID {
	tiled := make([]WindowID, 0, len(ws.Windows))
	for _, id := range ws.Windows {
		if w, ok := m.windows[id]; ok && m.isTiled(w) {
			tiled = append(tiled, id)
		}
	}
	return tiled
}

// LogValue summarizes the store for structured logs.
func (m *Manager) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("windows", len(m.windows)),
		slog.Int("workspaces", len(m.workspaces)),
		slog.Int("monitors", len(m.monitors)),
		slog.Uint64("active_window", uint64(m.activeWindow)),
		slog.Uint64("active_workspace", uint64(m.activeWorkspace)),
	)
}
