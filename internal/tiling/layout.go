// Package tiling holds the pure geometry of the scrolling strip layout: where
// each tiled window sits on its workspace and how far the workspace must
// scroll to reveal one of them.
package tiling

import "github.com/1broseidon/scrollwm/internal/geometry"

// Item is a tiled window as seen by the layout.
type Item struct {
	Width  int
	Height int
	// MaxHeight caps the height the layout may give the window.
	MaxHeight int
	// Y is the window's current top edge, kept when there is no monitor.
	Y int
}

// Slot is the workspace-relative placement computed for an Item.
type Slot struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect converts the slot into a rectangle.
func (s Slot) Rect() geometry.Rect {
	return geometry.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Strip lays items out left to right. Each item starts where the previous one
// ended, beginning at the monitor's left edge (or 0 without a monitor). On a
// monitor items are as tall as the monitor allows and centred vertically;
// without one they keep their height and top edge.
func Strip(items []Item, monitor *geometry.Rect) []Slot {
	if len(items) == 0 {
		return nil
	}

	next := 0
	if monitor != nil {
		next = monitor.Left()
	}

	slots := make([]Slot, len(items))
	for i, it := range items {
		slot := Slot{X: next, Width: it.Width, Height: it.Height, Y: it.Y}
		if monitor != nil {
			slot.Height = min(monitor.Height, it.MaxHeight)
			slot.Y = monitor.Top() + (monitor.Height-slot.Height)/2
		}
		slots[i] = slot
		next += it.Width
	}
	return slots
}

// Reveal returns the scroll offset that brings the horizontal span
// [left, left+width) inside viewport. The offset only moves when the span is
// cut off, and then by the minimum amount on that side. A span wider than the
// viewport is aligned to its left edge.
func Reveal(scroll, left, width int, viewport geometry.Rect) int {
	right := left + width
	switch {
	case left < scroll+viewport.Left():
		return left - viewport.Left()
	case right > scroll+viewport.Right():
		if width > viewport.Width {
			return left - viewport.Left()
		}
		return right - viewport.Right()
	}
	return scroll
}
