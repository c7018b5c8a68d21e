package x11

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/scrollwm/internal/geometry"
)

// DragKind tells a Sink which pointer gesture started.
type DragKind int

const (
	DragMove DragKind = iota
	DragResize
)

func (k DragKind) String() string {
	if k == DragResize {
		return "resize"
	}
	return "move"
}

// Sink receives the X events the window manager cares about. Methods are
// called on the X event goroutine and must not block.
type Sink interface {
	OutputsChanged()
	SurfaceMapped(win xproto.Window)
	// SurfaceChanged reports new geometry or a changed property that
	// affects management.
	SurfaceChanged(win xproto.Window)
	SurfaceUnmapped(win xproto.Window)
	FocusIn(win xproto.Window)
	PointerMoved(p geometry.Point)
	DragBegan(win xproto.Window, kind DragKind, p geometry.Point)
	DragEnded(p geometry.Point)
}

// Buttons are the xgbutil mouse strings ("Mod4-1") that start gestures on
// managed windows.
type Buttons struct {
	Move   string
	Resize string
}

// watchedProperties change how a window is managed or displayed.
var watchedProperties = []string{
	"WM_NAME",
	"_NET_WM_NAME",
	"WM_CLASS",
	"WM_NORMAL_HINTS",
	"WM_TRANSIENT_FOR",
	"_NET_WM_STATE",
	"_NET_WM_WINDOW_TYPE",
	"_GTK_FRAME_EXTENTS",
}

func (c *Connection) connectRoot() {
	xu := c.XUtil
	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		c.manage(ev.Window, true)
	}).Connect(xu, c.Root)
	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		c.configureRequest(ev)
	}).Connect(xu, c.Root)
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		switch {
		case ev.Window == c.Root:
			c.sink.OutputsChanged()
		case c.isManaged(ev.Window):
			c.sink.SurfaceChanged(ev.Window)
		}
	}).Connect(xu, c.Root)
	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		c.unmanage(ev.Window)
	}).Connect(xu, c.Root)
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		c.unmanage(ev.Window)
	}).Connect(xu, c.Root)
	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		c.sink.PointerMoved(geometry.Point{X: int(ev.RootX), Y: int(ev.RootY)})
	}).Connect(xu, c.Root)
	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		c.clientMessage(ev)
	}).Connect(xu, c.Root)
}

// ManageExisting adopts the windows that were already mapped when the
// window manager started.
func (c *Connection) ManageExisting() error {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return err
	}
	for _, win := range tree.Children {
		if c.check != nil && win == c.check.Id {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		c.manage(win, false)
	}
	return nil
}

// ManagedWindows returns the managed windows the server still shows.
func (c *Connection) ManagedWindows() []xproto.Window {
	c.mu.Lock()
	wins := make([]xproto.Window, 0, len(c.managed))
	for win := range c.managed {
		wins = append(wins, win)
	}
	c.mu.Unlock()

	alive := wins[:0]
	for _, win := range wins {
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
		if err != nil || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		alive = append(alive, win)
	}
	slices.Sort(alive)
	return alive
}

// SetButtons changes the gesture buttons and regrabs them on every managed
// window.
func (c *Connection) SetButtons(b Buttons) {
	c.mu.Lock()
	c.buttons = b
	wins := make([]xproto.Window, 0, len(c.managed))
	for win := range c.managed {
		wins = append(wins, win)
	}
	c.mu.Unlock()
	for _, win := range wins {
		mousebind.Detach(c.XUtil, win)
		c.grabDrags(win)
	}
}

func (c *Connection) isManaged(win xproto.Window) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.managed[win]
	return ok
}

func (c *Connection) manage(win xproto.Window, mapRequest bool) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return
	}
	if attrs.OverrideRedirect {
		if mapRequest {
			xproto.MapWindow(c.XUtil.Conn(), win)
		}
		return
	}
	if c.isDock(win) {
		c.manageDock(win, mapRequest)
		return
	}

	c.mu.Lock()
	_, known := c.managed[win]
	c.managed[win] = struct{}{}
	c.mu.Unlock()
	if known {
		if mapRequest {
			xproto.MapWindow(c.XUtil.Conn(), win)
		}
		return
	}

	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwEventMask, []uint32{
		xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange | xproto.EventMaskPropertyChange,
	})
	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Mode == xproto.NotifyModeGrab || ev.Mode == xproto.NotifyModeUngrab || ev.Detail == xproto.NotifyDetailPointer {
			return
		}
		c.sink.FocusIn(win)
	}).Connect(c.XUtil, win)
	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		c.sink.PointerMoved(geometry.Point{X: int(ev.RootX), Y: int(ev.RootY)})
	}).Connect(c.XUtil, win)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err == nil && slices.Contains(watchedProperties, name) {
			c.sink.SurfaceChanged(win)
		}
	}).Connect(c.XUtil, win)
	c.grabDrags(win)

	if mapRequest {
		xproto.MapWindow(c.XUtil.Conn(), win)
	}
	icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateNormal})
	c.updateClientList()
	c.sink.SurfaceMapped(win)
}

func (c *Connection) manageDock(win xproto.Window, mapRequest bool) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange})
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		c.sink.OutputsChanged()
	}).Connect(c.XUtil, win)
	if mapRequest {
		xproto.MapWindow(c.XUtil.Conn(), win)
	}
	c.sink.OutputsChanged()
}

func (c *Connection) grabDrags(win xproto.Window) {
	c.mu.Lock()
	b := c.buttons
	c.mu.Unlock()
	if b.Move != "" {
		c.drag(win, b.Move, DragMove)
	}
	if b.Resize != "" {
		c.drag(win, b.Resize, DragResize)
	}
}

func (c *Connection) drag(win xproto.Window, button string, kind DragKind) {
	mousebind.Drag(c.XUtil, win, win, button, true,
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
			c.sink.DragBegan(win, kind, geometry.Point{X: rootX, Y: rootY})
			return true, 0
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			c.sink.PointerMoved(geometry.Point{X: rootX, Y: rootY})
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			c.sink.DragEnded(geometry.Point{X: rootX, Y: rootY})
		})
}

func (c *Connection) unmanage(win xproto.Window) {
	c.mu.Lock()
	_, ok := c.managed[win]
	delete(c.managed, win)
	delete(c.fullscreens, win)
	c.mu.Unlock()
	if !ok {
		return
	}
	xevent.Detach(c.XUtil, win)
	mousebind.Detach(c.XUtil, win)
	c.updateClientList()
	c.sink.SurfaceUnmapped(win)
}

// configureRequest lets unmanaged windows configure themselves freely.
// Managed windows may only change their size; their position belongs to
// the layout.
func (c *Connection) configureRequest(ev xevent.ConfigureRequestEvent) {
	if c.isManaged(ev.Window) {
		var mask uint16
		var values []uint32
		if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
			mask |= xproto.ConfigWindowWidth
			values = append(values, uint32(ev.Width))
		}
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			mask |= xproto.ConfigWindowHeight
			values = append(values, uint32(ev.Height))
		}
		if mask != 0 {
			xproto.ConfigureWindow(c.XUtil.Conn(), ev.Window, mask, values)
		}
		if ev.ValueMask&(xproto.ConfigWindowX|xproto.ConfigWindowY) != 0 {
			if box, err := c.windowRect(ev.Window); err == nil {
				c.sendConfigureNotify(ev.Window, box)
			}
		}
		return
	}

	var mask uint16
	var values []uint32
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(ev.X)))
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(ev.Y)))
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(ev.Width))
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(ev.Height))
	}
	if ev.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(ev.BorderWidth))
	}
	if ev.ValueMask&xproto.ConfigWindowSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(ev.Sibling))
	}
	if ev.ValueMask&xproto.ConfigWindowStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(ev.StackMode))
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), ev.Window, mask, values)
}

// clientMessage handles the EWMH requests clients send to the root window.
func (c *Connection) clientMessage(ev xevent.ClientMessageEvent) {
	name, err := xprop.AtomName(c.XUtil, ev.Type)
	if err != nil || !c.isManaged(ev.Window) {
		return
	}
	data := ev.Data.Data32
	switch name {
	case "_NET_ACTIVE_WINDOW":
		c.FocusWindow(ev.Window)
	case "_NET_WM_STATE":
		if len(data) < 3 {
			return
		}
		for _, atom := range data[1:3] {
			prop, err := xprop.AtomName(c.XUtil, xproto.Atom(atom))
			if err != nil || prop != "_NET_WM_STATE_FULLSCREEN" {
				continue
			}
			on := data[0] == ewmh.StateAdd
			if data[0] == ewmh.StateToggle {
				states, _ := ewmh.WmStateGet(c.XUtil, ev.Window)
				on = !slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
			}
			c.setFullscreen(ev.Window, on)
		}
	}
}
