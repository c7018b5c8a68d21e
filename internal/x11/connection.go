package x11

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/scrollwm/internal/geometry"
)

// ErrOtherWM is returned by BecomeWM when another window manager already
// owns substructure redirection on the root window.
var ErrOtherWM = errors.New("another window manager is running")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	sink    Sink
	buttons Buttons

	mu          sync.Mutex
	managed     map[xproto.Window]struct{}
	fullscreens map[xproto.Window]geometry.Rect
	check       *xwindow.Window
}

// NewConnection connects to the X server named by display, or $DISPLAY when
// display is empty, and initializes the extensions and xgbutil modules the
// window manager uses.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// keybind and mousebind keep per-connection state that must exist
	// before any grab is made.
	keybind.Initialize(xu)
	mousebind.Initialize(xu)
	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	return &Connection{
		XUtil:       xu,
		Root:        xu.RootWin(),
		managed:     make(map[xproto.Window]struct{}),
		fullscreens: make(map[xproto.Window]geometry.Rect),
	}, nil
}

// BecomeWM takes substructure redirection on the root window, advertises the
// window manager through EWMH and starts routing events to sink.
func (c *Connection) BecomeWM(name string, sink Sink, buttons Buttons) error {
	mask := []uint32{
		xproto.EventMaskSubstructureRedirect |
			xproto.EventMaskSubstructureNotify |
			xproto.EventMaskStructureNotify |
			xproto.EventMaskEnterWindow |
			xproto.EventMaskPropertyChange,
	}
	if err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root, xproto.CwEventMask, mask).Check(); err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrOtherWM
		}
		return fmt.Errorf("select root events: %w", err)
	}

	c.sink = sink
	c.buttons = buttons

	check, err := xwindow.Create(c.XUtil, c.Root)
	if err != nil {
		return fmt.Errorf("create supporting window: %w", err)
	}
	c.check = check
	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return fmt.Errorf("set wm name: %w", err)
	}
	if err := c.publishDesktop(); err != nil {
		return err
	}

	c.connectRoot()
	return nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes EventLoop return.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	if c.check != nil {
		c.check.Destroy()
	}
	c.XUtil.Conn().Close()
}
