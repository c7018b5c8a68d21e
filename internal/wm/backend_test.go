package wm

import (
	"testing"

	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/platform"
)

type backendCall struct {
	op      string
	surface platform.SurfaceHandle
	size    geometry.Size
	point   geometry.Point
}

// recordingBackend records every request and acknowledges nothing on its own.
type recordingBackend struct {
	calls     []backendCall
	serial    platform.Serial
	resizeErr error
	moveErr   error
	closeErr  error
}

var _ platform.Backend = (*recordingBackend)(nil)

func (b *recordingBackend) RequestResize(h platform.SurfaceHandle, size geometry.Size) (platform.Serial, error) {
	if b.resizeErr != nil {
		return 0, b.resizeErr
	}
	b.serial++
	b.calls = append(b.calls, backendCall{op: "resize", surface: h, size: size})
	return b.serial, nil
}

func (b *recordingBackend) RequestMove(h platform.SurfaceHandle, p geometry.Point) error {
	if b.moveErr != nil {
		return b.moveErr
	}
	b.calls = append(b.calls, backendCall{op: "move", surface: h, point: p})
	return nil
}

func (b *recordingBackend) RequestFocus(h platform.SurfaceHandle) error {
	b.calls = append(b.calls, backendCall{op: "focus", surface: h})
	return nil
}

func (b *recordingBackend) RequestClose(h platform.SurfaceHandle) error {
	if b.closeErr != nil {
		return b.closeErr
	}
	b.calls = append(b.calls, backendCall{op: "close", surface: h})
	return nil
}

func (b *recordingBackend) Damage(h platform.SurfaceHandle) {
	b.calls = append(b.calls, backendCall{op: "damage", surface: h})
}

func (b *recordingBackend) Outputs() ([]platform.Output, error) { return nil, nil }

func (b *recordingBackend) Surfaces() ([]platform.SurfaceHandle, error) { return nil, nil }

func (b *recordingBackend) count(op string) int {
	n := 0
	for _, c := range b.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (b *recordingBackend) lastFocus() platform.SurfaceHandle {
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].op == "focus" {
			return b.calls[i].surface
		}
	}
	return 0
}

func newTestManager(t *testing.T) (*Manager, *recordingBackend) {
	t.Helper()
	b := &recordingBackend{}
	return New(b, nil, DefaultOptions()), b
}

func addOutput(m *Manager, h platform.OutputHandle, bounds geometry.Rect) MonitorID {
	return m.OutputAdded(platform.Output{Handle: h, Name: "out", Bounds: bounds})
}

func toplevel(width, height int) platform.SurfaceState {
	return platform.SurfaceState{
		AppID:    "term",
		Toplevel: true,
		Box:      geometry.Rect{Width: width, Height: height},
	}
}

func mapWindow(t *testing.T, m *Manager, h platform.SurfaceHandle, width int) WindowID {
	t.Helper()
	id, err := m.SurfaceMapped(h, toplevel(width, 300))
	if err != nil {
		t.Fatalf("map surface %d: %v", h, err)
	}
	return id
}

func mustWindow(t *testing.T, m *Manager, id WindowID) *Window {
	t.Helper()
	w, ok := m.Window(id)
	if !ok {
		t.Fatalf("window %d not found", id)
	}
	return w
}

func mustWorkspace(t *testing.T, m *Manager, id WorkspaceID) *Workspace {
	t.Helper()
	ws, ok := m.Workspace(id)
	if !ok {
		t.Fatalf("workspace %d not found", id)
	}
	return ws
}

func assertOrder(t *testing.T, ws *Workspace, want ...WindowID) {
	t.Helper()
	if len(ws.Windows) != len(want) {
		t.Fatalf("expected order %v, got %v", want, ws.Windows)
	}
	for i := range want {
		if ws.Windows[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, ws.Windows)
		}
	}
}

func assertInvariants(t *testing.T, m *Manager) {
	t.Helper()
	if err := m.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}
