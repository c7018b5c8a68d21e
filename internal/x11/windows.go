package x11

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/scrollwm/internal/geometry"
)

// WindowInfo is what the window manager reads from a client window.
type WindowInfo struct {
	Class      string
	Title      string
	Toplevel   bool
	Fullscreen bool
	MinSize    geometry.Size
	MaxSize    geometry.Size
	// Box is the window geometry in root coordinates, client-side shadow
	// included.
	Box geometry.Rect
	// Shadow is the total horizontal and vertical _GTK_FRAME_EXTENTS.
	Shadow geometry.Size
}

// WindowInfo reads the current geometry and properties of a window.
func (c *Connection) WindowInfo(win xproto.Window) (WindowInfo, error) {
	box, err := c.windowRect(win)
	if err != nil {
		return WindowInfo{}, err
	}
	info := WindowInfo{
		Class:    c.windowClass(win),
		Title:    c.windowTitle(win),
		Toplevel: c.isToplevel(win),
		Box:      box,
		Shadow:   c.shadow(win),
	}
	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		info.Fullscreen = slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if hints, err := icccm.WmNormalHintsGet(c.XUtil, win); err == nil {
		if hints.Flags&icccm.SizeHintPMinSize != 0 {
			info.MinSize = geometry.Size{Width: int(hints.MinWidth), Height: int(hints.MinHeight)}
		}
		if hints.Flags&icccm.SizeHintPMaxSize != 0 {
			info.MaxSize = geometry.Size{Width: int(hints.MaxWidth), Height: int(hints.MaxHeight)}
		}
	}
	return info, nil
}

func (c *Connection) windowRect(win xproto.Window) (geometry.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("get geometry of %d: %w", win, err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("translate coordinates of %d: %w", win, err)
	}
	return geometry.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

func (c *Connection) windowClass(win xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// isToplevel reports whether a window is an ordinary application window:
// not transient for another window and not of an auxiliary EWMH type.
func (c *Connection) isToplevel(win xproto.Window) bool {
	if parent, err := icccm.WmTransientForGet(c.XUtil, win); err == nil && parent != 0 {
		return false
	}
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_UTILITY",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_MENU":
			return false
		}
	}
	return len(types) == 0
}

// shadow reads the client-side decoration extents GTK publishes for CSD
// windows.
func (c *Connection) shadow(win xproto.Window) geometry.Size {
	ext, err := xprop.PropValNums(xprop.GetProperty(c.XUtil, win, "_GTK_FRAME_EXTENTS"))
	if err != nil || len(ext) != 4 {
		return geometry.Size{}
	}
	// left, right, top, bottom
	return geometry.Size{Width: int(ext[0] + ext[1]), Height: int(ext[2] + ext[3])}
}

// isDock reports whether a window reserves screen space and stays unmanaged.
func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	return err == nil && slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK")
}

// MoveWindow positions a window's top-left corner in root coordinates.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))},
	).Check()
}

// ResizeWindow sets a window's size. The server reports the change with a
// ConfigureNotify.
func (c *Connection) ResizeWindow(win xproto.Window, width, height int) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(max(width, 1)), uint32(max(height, 1))},
	).Check()
}

// configure moves, resizes and raises a window in one request.
func (c *Connection) configure(win xproto.Window, r geometry.Rect) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(max(r.Width, 1)), uint32(max(r.Height, 1)), xproto.StackModeAbove},
	).Check()
}

// FocusWindow gives a window the input focus and publishes it as
// _NET_ACTIVE_WINDOW.
func (c *Connection) FocusWindow(win xproto.Window) error {
	if err := xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("set input focus: %w", err)
	}
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check(); err != nil {
		return fmt.Errorf("raise window: %w", err)
	}
	return ewmh.ActiveWindowSet(c.XUtil, win)
}

// CloseWindow requests graceful window close via WM_DELETE_WINDOW, and kills
// the client when it does not take part in that protocol.
func (c *Connection) CloseWindow(win xproto.Window) error {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err != nil || !slices.Contains(protocols, "WM_DELETE_WINDOW") {
		return xproto.KillClientChecked(c.XUtil.Conn(), uint32(win)).Check()
	}

	protocolsAtom, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// sendConfigureNotify tells a client its current geometry after a configure
// request was not honored as asked.
func (c *Connection) sendConfigureNotify(win xproto.Window, box geometry.Rect) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     0,
		X:                int16(box.X),
		Y:                int16(box.Y),
		Width:            uint16(box.Width),
		Height:           uint16(box.Height),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}
