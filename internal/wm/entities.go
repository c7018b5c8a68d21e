package wm

import (
	"slices"

	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/platform"
)

// Window is a managed client surface.
type Window struct {
	ID        WindowID
	Workspace WorkspaceID
	Surface   platform.SurfaceHandle
	View      platform.SurfaceState

	// WorkspaceGeo is the window's slot on its workspace strip, before the
	// workspace scroll offset is applied.
	WorkspaceGeo geometry.Rect
	Dragged      bool

	pending pendingResize
}

// pendingResize tracks the newest unacknowledged resize request.
type pendingResize struct {
	active bool
	serial platform.Serial
	size   geometry.Size
}

func (w *Window) shadowed() geometry.Shadowed {
	return geometry.Shadowed{Box: w.View.Box, Shadow: w.View.Shadow}
}

// Rendered returns the visible content rectangle in layout coordinates.
func (w *Window) Rendered() geometry.Rect {
	return w.shadowed().Visible()
}

// Width is the rendered content width.
func (w *Window) Width() int { return w.Rendered().Width }

// Height is the rendered content height.
func (w *Window) Height() int { return w.Rendered().Height }

// MaxHeight is the tallest the window may be laid out. A client without a
// maximum is unbounded; a client whose maximum is below its current height is
// allowed to keep that height.
func (w *Window) MaxHeight() int {
	if w.View.MaxSize.Height <= 0 {
		return unbounded
	}
	return max(w.View.MaxSize.Height, w.Height())
}

// MaxWidth follows the same rules as MaxHeight.
func (w *Window) MaxWidth() int {
	if w.View.MaxSize.Width <= 0 {
		return unbounded
	}
	return max(w.View.MaxSize.Width, w.Width())
}

// MinHeight is the client's minimum content height, 0 when unset.
func (w *Window) MinHeight() int { return w.View.MinSize.Height }

// MinWidth is the client's minimum content width, 0 when unset.
func (w *Window) MinWidth() int { return w.View.MinSize.Width }

// PendingResize reports the serial and size of an unacknowledged resize.
func (w *Window) PendingResize() (platform.Serial, geometry.Size, bool) {
	return w.pending.serial, w.pending.size, w.pending.active
}

// Tileable reports whether the window takes part in the strip layout.
func (w *Window) Tileable(excluded map[string]struct{}) bool {
	if !w.View.Toplevel || w.View.Fullscreen {
		return false
	}
	_, skip := excluded[w.View.AppID]
	return !skip
}

const unbounded = int(^uint(0) >> 1)

// Workspace is an ordered strip of windows shown on at most one monitor.
type Workspace struct {
	ID           WorkspaceID
	Windows      []WindowID
	Monitor      MonitorID
	ScrollLeft   int
	ActiveWindow WindowID
}

// Spare reports whether the workspace is not shown on any monitor.
func (ws *Workspace) Spare() bool {
	return ws.Monitor == 0
}

func (ws *Workspace) indexOf(id WindowID) int {
	return slices.Index(ws.Windows, id)
}

func (ws *Workspace) insertAt(i int, id WindowID) {
	ws.Windows = slices.Insert(ws.Windows, i, id)
}

func (ws *Workspace) removeAt(i int) {
	ws.Windows = slices.Delete(ws.Windows, i, i+1)
}

func (ws *Workspace) swap(a, b WindowID) bool {
	i, j := ws.indexOf(a), ws.indexOf(b)
	if i < 0 || j < 0 {
		return false
	}
	ws.Windows[i], ws.Windows[j] = ws.Windows[j], ws.Windows[i]
	return true
}

// Monitor is a physical output displaying one workspace.
type Monitor struct {
	ID        MonitorID
	Workspace WorkspaceID
	Output    platform.OutputHandle
	Name      string
	Extents   geometry.Rect
}

// GestureKind distinguishes pointer-driven interactions.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureMove
	GestureResize
)

func (k GestureKind) String() string {
	switch k {
	case GestureMove:
		return "move"
	case GestureResize:
		return "resize"
	default:
		return "none"
	}
}

// Edges is a set of window edges grabbed by a resize gesture.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Gesture is the pointer interaction in progress.
type Gesture struct {
	Kind   GestureKind
	Window WindowID
	Edges  Edges
	// TopLeft and Size track the window's rendered geometry as the gesture
	// progresses.
	TopLeft geometry.Point
	Size    geometry.Size
}
