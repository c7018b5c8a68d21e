//go:build linux

package platform

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/x11"
)

// X11Backend realizes core requests on an X11 connection. Surface handles
// are X window ids and output handles are RandR output ids. It is used from
// the event loop goroutine only.
type X11Backend struct {
	conn    *x11.Connection
	resizes *ResizeTracker
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend wraps an existing X11 connection.
func NewX11Backend(conn *x11.Connection) *X11Backend {
	return &X11Backend{conn: conn, resizes: NewResizeTracker()}
}

// Conn returns the underlying X11 connection.
func (b *X11Backend) Conn() *x11.Connection { return b.conn }

func (b *X11Backend) RequestResize(h SurfaceHandle, size geometry.Size) (Serial, error) {
	if err := b.conn.ResizeWindow(xproto.Window(h), size.Width, size.Height); err != nil {
		return 0, fmt.Errorf("resize window %d: %w", h, err)
	}
	return b.resizes.Issue(h, size), nil
}

func (b *X11Backend) RequestMove(h SurfaceHandle, p geometry.Point) error {
	if err := b.conn.MoveWindow(xproto.Window(h), p.X, p.Y); err != nil {
		return fmt.Errorf("move window %d: %w", h, err)
	}
	return nil
}

func (b *X11Backend) RequestFocus(h SurfaceHandle) error {
	if err := b.conn.FocusWindow(xproto.Window(h)); err != nil {
		return fmt.Errorf("focus window %d: %w", h, err)
	}
	return nil
}

func (b *X11Backend) RequestClose(h SurfaceHandle) error {
	if err := b.conn.CloseWindow(xproto.Window(h)); err != nil {
		return fmt.Errorf("close window %d: %w", h, err)
	}
	return nil
}

// Damage is a no-op: the X server repaints exposed areas itself.
func (b *X11Backend) Damage(SurfaceHandle) {}

// Outputs lists active outputs with dock struts already removed from their
// bounds.
func (b *X11Backend) Outputs() ([]Output, error) {
	outs, err := b.conn.Outputs()
	if err != nil {
		return nil, err
	}
	res := make([]Output, 0, len(outs))
	for _, o := range outs {
		res = append(res, Output{Handle: OutputHandle(o.ID), Name: o.Name, Bounds: o.Usable})
	}
	slices.SortFunc(res, func(a, b Output) int { return int(a.Handle) - int(b.Handle) })
	return res, nil
}

func (b *X11Backend) Surfaces() ([]SurfaceHandle, error) {
	wins := b.conn.ManagedWindows()
	res := make([]SurfaceHandle, 0, len(wins))
	for _, w := range wins {
		res = append(res, SurfaceHandle(w))
	}
	return res, nil
}

// SurfaceState reads the current state of a window.
func (b *X11Backend) SurfaceState(h SurfaceHandle) (SurfaceState, error) {
	info, err := b.conn.WindowInfo(xproto.Window(h))
	if err != nil {
		return SurfaceState{}, err
	}
	return SurfaceState{
		AppID:      info.Class,
		Title:      info.Title,
		Toplevel:   info.Toplevel,
		Fullscreen: info.Fullscreen,
		MinSize:    info.MinSize,
		MaxSize:    info.MaxSize,
		Box:        info.Box,
		Shadow:     info.Shadow,
	}, nil
}

// Acknowledge matches a reported window size against outstanding resize
// requests.
func (b *X11Backend) Acknowledge(h SurfaceHandle, size geometry.Size) (Serial, bool) {
	return b.resizes.Acknowledge(h, size)
}

// Forget drops resize bookkeeping for a window that went away.
func (b *X11Backend) Forget(h SurfaceHandle) {
	b.resizes.Forget(h)
}
