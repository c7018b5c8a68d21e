package wm

import (
	"testing"

	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/platform"
)

func arrangedStrip(t *testing.T, bounds geometry.Rect, widths ...int) (*Manager, *recordingBackend, []WindowID) {
	t.Helper()
	m, b := newTestManager(t)
	addOutput(m, 1, bounds)
	ids := make([]WindowID, len(widths))
	for i, w := range widths {
		ids[i] = mapWindow(t, m, platform.SurfaceHandle(10+i), w)
	}
	if err := m.Arrange(m.ActiveWorkspace()); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	return m, b, ids
}

func TestPointerMotion_WithoutGestureIsNotConsumed(t *testing.T) {
	m, _, _ := arrangedStrip(t, geometry.Rect{Width: 1920, Height: 1080}, 100)
	if m.PointerMotion(geometry.Point{X: 50, Y: 50}) {
		t.Fatalf("expected plain motion not to be consumed")
	}
}

func TestDrag_SwapsWithLeftNeighbor(t *testing.T) {
	m, _, ids := arrangedStrip(t, geometry.Rect{Width: 1920, Height: 1080}, 100, 200, 150)
	a, b, c := ids[0], ids[1], ids[2]

	m.PointerMotion(geometry.Point{X: 150, Y: 500})
	if err := m.BeginMove(b); err != nil {
		t.Fatalf("begin move: %v", err)
	}
	if m.ActiveWindow() != b {
		t.Fatalf("expected grabbed window focused")
	}

	// Past the midpoint of a plus half of b's width.
	if !m.PointerMotion(geometry.Point{X: 40, Y: 500}) {
		t.Fatalf("expected motion consumed by the drag")
	}

	ws := mustWorkspace(t, m, m.ActiveWorkspace())
	assertOrder(t, ws, b, a, c)
	if !mustWindow(t, m, b).Dragged {
		t.Fatalf("expected dragged flag while moving")
	}
	if x := mustWindow(t, m, b).Rendered().X; x != -10 {
		t.Fatalf("expected dragged window to follow the pointer to x=-10, got %d", x)
	}
	if x := mustWindow(t, m, a).Rendered().X; x != 200 {
		t.Fatalf("expected a shifted to x=200, got %d", x)
	}

	if err := m.EndGesture(); err != nil {
		t.Fatalf("end gesture: %v", err)
	}
	if mustWindow(t, m, b).Dragged {
		t.Fatalf("expected dragged flag cleared")
	}
	if x := mustWindow(t, m, b).Rendered().X; x != 0 {
		t.Fatalf("expected b snapped to x=0, got %d", x)
	}
	if m.Gesture().Kind != GestureNone {
		t.Fatalf("expected no gesture, got %v", m.Gesture().Kind)
	}
	assertInvariants(t, m)
}

func TestDrag_SmallMoveKeepsOrder(t *testing.T) {
	m, _, ids := arrangedStrip(t, geometry.Rect{Width: 1920, Height: 1080}, 100, 200, 150)

	m.PointerMotion(geometry.Point{X: 200, Y: 500})
	if err := m.BeginMove(ids[1]); err != nil {
		t.Fatalf("begin move: %v", err)
	}
	m.PointerMotion(geometry.Point{X: 210, Y: 520})

	assertOrder(t, mustWorkspace(t, m, m.ActiveWorkspace()), ids...)
	if got := mustWindow(t, m, ids[1]).Rendered().TopLeft(); got != (geometry.Point{X: 110, Y: 20}) {
		t.Fatalf("expected window at 110,20, got %v", got)
	}
}

func TestDrag_TopZoneScrollsWorkspace(t *testing.T) {
	m, _, ids := arrangedStrip(t, geometry.Rect{Width: 500, Height: 400}, 200, 200, 200)
	c := ids[2]
	ws := mustWorkspace(t, m, m.ActiveWorkspace())
	if ws.ScrollLeft != 100 {
		t.Fatalf("expected initial scroll 100, got %d", ws.ScrollLeft)
	}

	m.PointerMotion(geometry.Point{X: 300, Y: 50})
	if err := m.BeginMove(c); err != nil {
		t.Fatalf("begin move: %v", err)
	}
	m.PointerMotion(geometry.Point{X: 260, Y: 50})

	if ws.ScrollLeft != 140 {
		t.Fatalf("expected scroll 140 after dragging left by 40, got %d", ws.ScrollLeft)
	}
	if mustWindow(t, m, c).Dragged {
		t.Fatalf("expected scroll zone drag not to detach the window")
	}
	if x := mustWindow(t, m, c).Rendered().X; x != 260 {
		t.Fatalf("expected c rendered at x=260, got %d", x)
	}
}

func TestResize_RightEdgeGrowsAndPushesNeighbor(t *testing.T) {
	m, _, ids := arrangedStrip(t, geometry.Rect{Width: 1920, Height: 1080}, 100, 200, 150)
	b, c := ids[1], ids[2]

	m.PointerMotion(geometry.Point{X: 290, Y: 500})
	if err := m.BeginResize(b, EdgeRight); err != nil {
		t.Fatalf("begin resize: %v", err)
	}
	m.PointerMotion(geometry.Point{X: 340, Y: 500})

	_, size, ok := mustWindow(t, m, b).PendingResize()
	if !ok || size.Width != 250 {
		t.Fatalf("expected pending width 250, got %v (%v)", size, ok)
	}
	if x := mustWindow(t, m, c).WorkspaceGeo.X; x != 350 {
		t.Fatalf("expected neighbor at x=350, got %d", x)
	}
	if g := m.Gesture(); g.Size.Width != 250 {
		t.Fatalf("expected gesture to track width 250, got %d", g.Size.Width)
	}
}

func TestResize_LeftEdgeKeepsRightEdgeOnScreen(t *testing.T) {
	m, _, ids := arrangedStrip(t, geometry.Rect{Width: 1920, Height: 1080}, 100, 200, 150)
	b := ids[1]
	ws := mustWorkspace(t, m, m.ActiveWorkspace())

	m.PointerMotion(geometry.Point{X: 100, Y: 500})
	if err := m.BeginResize(b, EdgeLeft); err != nil {
		t.Fatalf("begin resize: %v", err)
	}
	m.PointerMotion(geometry.Point{X: 70, Y: 500})

	if ws.ScrollLeft != 30 {
		t.Fatalf("expected scroll 30, got %d", ws.ScrollLeft)
	}
	w := mustWindow(t, m, b)
	_, size, _ := w.PendingResize()
	if right := w.WorkspaceGeo.X - ws.ScrollLeft + size.Width; right != 300 {
		t.Fatalf("expected right edge to stay at 300, got %d", right)
	}
}

func TestResize_FloatingWindowClampsToMinimum(t *testing.T) {
	m, b := newTestManager(t)
	state := toplevel(200, 100)
	state.AppID = "ulauncher"
	state.Box = state.Box.WithOrigin(geometry.Point{X: 500, Y: 500})
	state.MinSize = geometry.Size{Width: 150, Height: 80}
	id, err := m.SurfaceMapped(10, state)
	if err != nil {
		t.Fatalf("map: %v", err)
	}

	m.PointerMotion(geometry.Point{X: 500, Y: 500})
	if err := m.BeginResize(id, EdgeLeft|EdgeTop); err != nil {
		t.Fatalf("begin resize: %v", err)
	}
	m.PointerMotion(geometry.Point{X: 600, Y: 560})

	_, size, ok := mustWindow(t, m, id).PendingResize()
	if !ok || size != (geometry.Size{Width: 150, Height: 80}) {
		t.Fatalf("expected pending size clamped to 150x80, got %v (%v)", size, ok)
	}
	if got := mustWindow(t, m, id).Rendered().TopLeft(); got != (geometry.Point{X: 550, Y: 520}) {
		t.Fatalf("expected opposite corner pinned, window at %v", got)
	}
	if b.count("move") != 1 {
		t.Fatalf("expected a single move, got %d", b.count("move"))
	}
}

func TestEndGesture_WithoutGesture(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.EndGesture(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDeleteWindow_CancelsGesture(t *testing.T) {
	m, _, ids := arrangedStrip(t, geometry.Rect{Width: 1920, Height: 1080}, 100, 200)
	if err := m.BeginMove(ids[1]); err != nil {
		t.Fatalf("begin move: %v", err)
	}
	if err := m.SurfaceUnmapped(ids[1]); err != nil {
		t.Fatalf("unmap: %v", err)
	}
	if m.Gesture().Kind != GestureNone {
		t.Fatalf("expected gesture cancelled with its window")
	}
	if m.PointerMotion(geometry.Point{X: 10, Y: 500}) {
		t.Fatalf("expected motion not consumed after cancel")
	}
}
