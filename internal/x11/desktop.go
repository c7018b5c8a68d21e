package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// supported lists the EWMH hints this window manager maintains or honors.
var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_STRUT_PARTIAL",
}

// publishDesktop sets the root window properties pagers and panels read.
// Scrolling workspaces are per monitor, so EWMH sees a single desktop.
func (c *Connection) publishDesktop() error {
	if err := ewmh.SupportedSet(c.XUtil, supported); err != nil {
		return fmt.Errorf("set _NET_SUPPORTED: %w", err)
	}
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, 1); err != nil {
		return fmt.Errorf("set desktop count: %w", err)
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, 0); err != nil {
		return fmt.Errorf("set current desktop: %w", err)
	}
	return c.updateClientList()
}

// updateClientList republishes _NET_CLIENT_LIST from the managed set.
func (c *Connection) updateClientList() error {
	c.mu.Lock()
	clients := make([]xproto.Window, 0, len(c.managed))
	for win := range c.managed {
		clients = append(clients, win)
	}
	c.mu.Unlock()
	slices.Sort(clients)
	return ewmh.ClientListSet(c.XUtil, clients)
}

// setFullscreen applies a _NET_WM_STATE fullscreen request. Entering
// fullscreen covers the output under the window; leaving restores the
// geometry it had before.
func (c *Connection) setFullscreen(win xproto.Window, on bool) error {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		states = nil
	}
	has := slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
	if has == on {
		return nil
	}

	if on {
		box, err := c.windowRect(win)
		if err != nil {
			return err
		}
		outputs, err := c.Outputs()
		if err != nil {
			return err
		}
		target := box
		for _, out := range outputs {
			if out.Bounds.Contains(box.Center()) {
				target = out.Bounds
				break
			}
		}
		c.mu.Lock()
		c.fullscreens[win] = box
		c.mu.Unlock()
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
		if err := ewmh.WmStateSet(c.XUtil, win, states); err != nil {
			return err
		}
		return c.configure(win, target)
	}

	states = slices.DeleteFunc(states, func(s string) bool { return s == "_NET_WM_STATE_FULLSCREEN" })
	if err := ewmh.WmStateSet(c.XUtil, win, states); err != nil {
		return err
	}
	c.mu.Lock()
	saved, ok := c.fullscreens[win]
	delete(c.fullscreens, win)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.configure(win, saved)
}
