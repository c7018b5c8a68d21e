package wm

import (
	"errors"
	"testing"

	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/platform"
)

func TestGenerator_StrictlyIncreasingFromOne(t *testing.T) {
	var g Generator[WindowID]
	if g.Last() != 0 {
		t.Fatalf("expected no id issued yet, got %d", g.Last())
	}
	prev := WindowID(0)
	for i := 0; i < 100; i++ {
		id := g.Next()
		if id <= prev {
			t.Fatalf("expected id > %d, got %d", prev, id)
		}
		prev = id
	}
	if prev != 100 {
		t.Fatalf("expected 100th id to be 100, got %d", prev)
	}
}

func TestNew_HasActiveWorkspaceAndSpare(t *testing.T) {
	m, _ := newTestManager(t)
	if m.ActiveWorkspace() == 0 {
		t.Fatalf("expected an active workspace")
	}
	if m.NewWindowWorkspace() != m.ActiveWorkspace() {
		t.Fatalf("expected new windows to go to the active workspace")
	}
	if got := len(m.spareWorkspaces()); got != 2 {
		t.Fatalf("expected 2 spare workspaces, got %d", got)
	}
	assertInvariants(t, m)
}

func TestSpareWorkspace_Replenishes(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 0; i < 5; i++ {
		id := m.SpareWorkspace()
		ws := mustWorkspace(t, m, id)
		if !ws.Spare() {
			t.Fatalf("iteration %d: returned workspace %d is on monitor %d", i, id, ws.Monitor)
		}
		// Claim it the way a new output would.
		ws.Monitor = MonitorID(100 + i)
		m.monitors[ws.Monitor] = &Monitor{ID: ws.Monitor, Workspace: id}
		if len(m.spareWorkspaces()) == 0 {
			t.Fatalf("iteration %d: no spare workspace left after claim", i)
		}
	}
	assertInvariants(t, m)
}

func TestSpareWorkspace_CreatesTwoWhenNoneSpare(t *testing.T) {
	m := &Manager{
		windows:    map[WindowID]*Window{},
		workspaces: map[WorkspaceID]*Workspace{},
		monitors:   map[MonitorID]*Monitor{},
	}
	first := m.SpareWorkspace()
	if first != 1 {
		t.Fatalf("expected first workspace id 1, got %d", first)
	}
	if len(m.workspaces) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(m.workspaces))
	}
	if again := m.SpareWorkspace(); again != first {
		t.Fatalf("expected unclaimed spare %d to be returned again, got %d", first, again)
	}
	if len(m.workspaces) != 2 {
		t.Fatalf("expected no growth while two spares exist, got %d workspaces", len(m.workspaces))
	}
}

func TestAddWindow_InsertsAfterActiveWindow(t *testing.T) {
	m, _ := newTestManager(t)
	addOutput(m, 1, geometry.Rect{Width: 1920, Height: 1080})

	a := mapWindow(t, m, 10, 100)
	b := mapWindow(t, m, 11, 100)
	if err := m.ActivateWindow(a); err != nil {
		t.Fatalf("activate: %v", err)
	}
	c := mapWindow(t, m, 12, 100)

	ws := mustWorkspace(t, m, m.ActiveWorkspace())
	assertOrder(t, ws, a, c, b)
	if m.ActiveWindow() != c || ws.ActiveWindow != c {
		t.Fatalf("expected toplevel %d to become active, got %d / %d", c, m.ActiveWindow(), ws.ActiveWindow)
	}
	assertInvariants(t, m)
}

func TestAddWindow_NonToplevelIsNotActivated(t *testing.T) {
	m, _ := newTestManager(t)
	a := mapWindow(t, m, 10, 100)

	popup := toplevel(50, 50)
	popup.Toplevel = false
	p, err := m.SurfaceMapped(20, popup)
	if err != nil {
		t.Fatalf("map popup: %v", err)
	}
	if m.ActiveWindow() != a {
		t.Fatalf("expected %d to stay active, got %d", a, m.ActiveWindow())
	}
	if m.IsTiled(p) {
		t.Fatalf("expected popup not to tile")
	}
}

func TestAddWindow_UnknownWorkspace(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.AddWindow(&Window{Workspace: 99, View: toplevel(10, 10)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(m.windows) != 0 {
		t.Fatalf("expected no window stored")
	}
}

func TestDeleteWindow_ActiveMiddleSelectsPrevious(t *testing.T) {
	m, _ := newTestManager(t)
	addOutput(m, 1, geometry.Rect{Width: 1920, Height: 1080})
	a := mapWindow(t, m, 10, 100)
	b := mapWindow(t, m, 11, 200)
	c := mapWindow(t, m, 12, 150)
	if err := m.ActivateWindow(b); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := m.DeleteWindow(b); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ws := mustWorkspace(t, m, m.ActiveWorkspace())
	assertOrder(t, ws, a, c)
	if ws.ActiveWindow != a {
		t.Fatalf("expected workspace active window %d, got %d", a, ws.ActiveWindow)
	}
	if m.ActiveWindow() != 0 {
		t.Fatalf("expected global focus cleared, got %d", m.ActiveWindow())
	}
	if _, ok := m.Window(b); ok {
		t.Fatalf("expected window %d to be gone", b)
	}
	assertInvariants(t, m)
}

func TestRemoveWindowFromWorkspace_Successor(t *testing.T) {
	tests := []struct {
		name   string
		remove int // index into the mapped windows
		popup  bool
		want   int // index of expected successor, -1 for none
	}{
		{name: "first selects next", remove: 0, want: 1},
		{name: "last selects previous", remove: 2, want: 1},
		{name: "middle selects previous", remove: 1, want: 0},
		{name: "non-tiled selects last tiled", remove: 3, popup: true, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			addOutput(m, 1, geometry.Rect{Width: 1920, Height: 1080})
			ids := []WindowID{
				mapWindow(t, m, 10, 100),
				mapWindow(t, m, 11, 100),
				mapWindow(t, m, 12, 100),
			}
			if tt.popup {
				state := toplevel(100, 100)
				state.Fullscreen = true
				id, err := m.SurfaceMapped(13, state)
				if err != nil {
					t.Fatalf("map: %v", err)
				}
				ids = append(ids, id)
			}
			target := ids[tt.remove]
			if err := m.ActivateWindow(target); err != nil {
				t.Fatalf("activate: %v", err)
			}

			if err := m.RemoveWindowFromWorkspace(target); err != nil {
				t.Fatalf("remove: %v", err)
			}

			ws := mustWorkspace(t, m, m.ActiveWorkspace())
			want := WindowID(0)
			if tt.want >= 0 {
				want = ids[tt.want]
			}
			if ws.ActiveWindow != want {
				t.Fatalf("expected successor %d, got %d", want, ws.ActiveWindow)
			}
			if ws.indexOf(target) >= 0 {
				t.Fatalf("expected %d removed from list %v", target, ws.Windows)
			}
		})
	}
}

func TestRemoveWindowFromWorkspace_OnlyWindowLeavesNoSuccessor(t *testing.T) {
	m, _ := newTestManager(t)
	a := mapWindow(t, m, 10, 100)
	if err := m.RemoveWindowFromWorkspace(a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ws := mustWorkspace(t, m, m.ActiveWorkspace()); ws.ActiveWindow != 0 {
		t.Fatalf("expected no successor, got %d", ws.ActiveWindow)
	}
}

func TestRemoveWindowFromWorkspace_MissingFromListIsInvariantError(t *testing.T) {
	m, _ := newTestManager(t)
	a := mapWindow(t, m, 10, 100)
	b := mapWindow(t, m, 11, 100)
	ws := mustWorkspace(t, m, m.ActiveWorkspace())
	ws.Windows = []WindowID{a}

	err := m.RemoveWindowFromWorkspace(b)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
	if ws.ActiveWindow != b {
		t.Fatalf("expected active window untouched on failure, got %d", ws.ActiveWindow)
	}
	assertOrder(t, ws, a)
}

func TestDeleteWindow_UnknownIsNotFound(t *testing.T) {
	m, _ := newTestManager(t)
	a := mapWindow(t, m, 10, 100)

	err := m.DeleteWindow(a + 100)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "window" {
		t.Fatalf("expected window NotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	if _, ok := m.Window(a); !ok {
		t.Fatalf("expected existing window untouched")
	}
}

func TestFocusWindow_RequestsFocus(t *testing.T) {
	m, b := newTestManager(t)
	a := mapWindow(t, m, 10, 100)
	mapWindow(t, m, 11, 100)

	if err := m.FocusWindow(a); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if m.ActiveWindow() != a {
		t.Fatalf("expected focus on %d, got %d", a, m.ActiveWindow())
	}
	if b.lastFocus() != 10 {
		t.Fatalf("expected focus request for surface 10, got %d", b.lastFocus())
	}
}

func TestCheckInvariants_DetectsDoubleOwnership(t *testing.T) {
	m, _ := newTestManager(t)
	a := mapWindow(t, m, 10, 100)
	other := m.CreateWorkspace()
	mustWorkspace(t, m, other).Windows = []WindowID{a}

	err := m.CheckInvariants()
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestWindow_ShadowAwareGeometry(t *testing.T) {
	w := &Window{View: platform.SurfaceState{
		Box:     geometry.Rect{X: 90, Y: 40, Width: 220, Height: 120},
		Shadow:  geometry.Size{Width: 20, Height: 20},
		MaxSize: geometry.Size{Height: 50},
	}}
	if got := w.Rendered(); got != (geometry.Rect{X: 100, Y: 50, Width: 200, Height: 100}) {
		t.Fatalf("unexpected rendered rect %v", got)
	}
	if w.MaxHeight() != 100 {
		t.Fatalf("expected max height to keep current height 100, got %d", w.MaxHeight())
	}
	if w.MaxWidth() != unbounded {
		t.Fatalf("expected unbounded max width")
	}
}

func TestSnapshot_CopiesStripOrder(t *testing.T) {
	m, _ := newTestManager(t)
	addOutput(m, 1, geometry.Rect{Width: 1920, Height: 1080})
	a := mapWindow(t, m, 10, 100)
	b := mapWindow(t, m, 11, 200)
	if err := m.ArrangeActive(); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	s := m.Snapshot()
	if s.ActiveWindow != b || len(s.Monitors) != 1 {
		t.Fatalf("unexpected snapshot header %+v", s)
	}
	ws, ok := s.Workspace(s.Monitors[0].Workspace)
	if !ok {
		t.Fatalf("expected monitor workspace in snapshot")
	}
	if len(ws.Windows) != 2 || ws.Windows[0].ID != a || ws.Windows[1].ID != b {
		t.Fatalf("unexpected windows %+v", ws.Windows)
	}
	if !ws.Windows[1].Tiled || ws.Windows[1].Rendered.X != 100 {
		t.Fatalf("expected b tiled at x=100, got %+v", ws.Windows[1])
	}

	// Later mutations do not leak into the copy.
	if err := m.DeleteWindow(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(ws.Windows) != 2 {
		t.Fatalf("expected snapshot to be unaffected")
	}
	if _, ok := s.Workspace(9999); ok {
		t.Fatalf("expected unknown workspace lookup to fail")
	}
}
