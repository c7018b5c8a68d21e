package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/scrollwm/internal/geometry"
)

// Output is an active RandR output and the part of it not covered by docks.
type Output struct {
	ID     randr.Output
	Name   string
	Bounds geometry.Rect
	// Usable is Bounds minus the struts of dock windows on this output.
	Usable geometry.Rect
}

// Outputs retrieves all active outputs using XRandR, one per enabled CRTC.
func (c *Connection) Outputs() ([]Output, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []Output
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		id := info.Outputs[0]
		name := fmt.Sprintf("output-%d", id)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), id, resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		bounds := geometry.Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		outputs = append(outputs, Output{ID: id, Name: name, Bounds: bounds, Usable: bounds})
	}

	struts := c.dockStruts()
	if len(struts) > 0 {
		root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
		if err == nil {
			screen := geometry.Size{Width: int(root.Width), Height: int(root.Height)}
			for i := range outputs {
				outputs[i].Usable = UsableArea(outputs[i].Bounds, screen, struts)
			}
		}
	}
	return outputs, nil
}

// dockStruts collects the struts of every mapped dock window.
func (c *Connection) dockStruts() []ewmh.WmStrutPartial {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	var out []ewmh.WmStrutPartial
	for _, win := range tree.Children {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			out = append(out, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			out = append(out, fullStrut(s))
		}
	}
	return out
}

func fullStrut(s *ewmh.WmStrut) ewmh.WmStrutPartial {
	const everywhere = 1<<31 - 1
	return ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY: everywhere, RightEndY: everywhere,
		TopEndX: everywhere, BottomEndX: everywhere,
	}
}

// UsableArea shrinks an output by the struts reserved on it. Struts are
// given relative to the whole screen; each one only counts for the part that
// overlaps the output. The result never collapses below 1x1.
func UsableArea(output geometry.Rect, screen geometry.Size, struts []ewmh.WmStrutPartial) geometry.Rect {
	var left, right, top, bottom int
	for _, sp := range struts {
		if sp.Top > 0 {
			band := geometry.Rect{X: int(sp.TopStartX), Y: 0, Width: span(sp.TopStartX, sp.TopEndX), Height: int(sp.Top)}
			top = max(top, output.Intersect(band).Height)
		}
		if sp.Bottom > 0 {
			band := geometry.Rect{X: int(sp.BottomStartX), Y: screen.Height - int(sp.Bottom), Width: span(sp.BottomStartX, sp.BottomEndX), Height: int(sp.Bottom)}
			bottom = max(bottom, output.Intersect(band).Height)
		}
		if sp.Left > 0 {
			band := geometry.Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: span(sp.LeftStartY, sp.LeftEndY)}
			left = max(left, output.Intersect(band).Width)
		}
		if sp.Right > 0 {
			band := geometry.Rect{X: screen.Width - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: span(sp.RightStartY, sp.RightEndY)}
			right = max(right, output.Intersect(band).Width)
		}
	}

	return geometry.Rect{
		X:      output.X + left,
		Y:      output.Y + top,
		Width:  max(output.Width-left-right, 1),
		Height: max(output.Height-top-bottom, 1),
	}
}

// span is the length of an inclusive strut range.
func span(start, end uint) int {
	return int(end) - int(start) + 1
}
