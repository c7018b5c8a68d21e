package platform

import "github.com/1broseidon/scrollwm/internal/geometry"

// SurfaceHandle is an opaque, collaborator-issued reference to a client
// surface. The core only stores and forwards it.
type SurfaceHandle uint32

// OutputHandle is an opaque, collaborator-issued reference to a physical output.
type OutputHandle uint32

// Serial identifies a resize request so its acknowledgement can be matched.
type Serial uint32

// SurfaceState is the collaborator's latest description of a surface.
type SurfaceState struct {
	AppID      string
	Title      string
	Toplevel   bool
	Fullscreen bool
	// MinSize and MaxSize are content size hints. A zero axis in MaxSize means
	// the client sets no upper bound.
	MinSize geometry.Size
	MaxSize geometry.Size
	// Box is the full surface geometry in layout coordinates, shadow included.
	Box geometry.Rect
	// Shadow is the extra width and height the surface draws around its content.
	Shadow geometry.Size
}

// Output describes a physical display as reported by the collaborator.
type Output struct {
	Handle OutputHandle
	Name   string
	Bounds geometry.Rect
}

// Backend is the set of requests the window-management core issues to the
// collaborator that owns real surfaces.
type Backend interface {
	// RequestResize asks the client to resize its box. The change is
	// asynchronous and is acknowledged later with the returned serial.
	RequestResize(h SurfaceHandle, size geometry.Size) (Serial, error)
	// RequestMove repositions the box immediately.
	RequestMove(h SurfaceHandle, topLeft geometry.Point) error
	RequestFocus(h SurfaceHandle) error
	// RequestClose asks the client to close gracefully.
	RequestClose(h SurfaceHandle) error
	// Damage hints that the surface's on-screen area must be redrawn.
	Damage(h SurfaceHandle)
	// Outputs lists the currently connected outputs.
	Outputs() ([]Output, error)
	// Surfaces lists the surfaces the collaborator still considers alive.
	Surfaces() ([]SurfaceHandle, error)
}
