// Package geometry holds the integer point, size and rectangle types shared by
// the window model, the arrangement passes and the X11 collaborator.
package geometry

import "fmt"

// Point is a position in layout coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by d.
func (p Point) Add(d Displacement) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Displacement {
	return Displacement{DX: p.X - q.X, DY: p.Y - q.Y}
}

// Size is a width/height pair. Zero means unset or unbounded depending on
// context; callers document which.
type Size struct {
	Width  int
	Height int
}

// Sub returns s shrunk by o on both axes.
func (s Size) Sub(o Size) Size {
	return Size{Width: s.Width - o.Width, Height: s.Height - o.Height}
}

// Half returns s with both axes halved, rounding toward zero.
func (s Size) Half() Displacement {
	return Displacement{DX: s.Width / 2, DY: s.Height / 2}
}

// Displacement is a signed offset between two points.
type Displacement struct {
	DX int
	DY int
}

// Rect describes a rectangular region in layout coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect builds a rectangle from an origin and a size.
func NewRect(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// TopLeft returns the origin of r.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the dimensions of r.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent monitors never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Translate returns r moved by d.
func (r Rect) Translate(d Displacement) Rect {
	r.X += d.DX
	r.Y += d.DY
	return r
}

// WithOrigin returns r moved so its top-left corner is p.
func (r Rect) WithOrigin(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// WithSize returns r resized to s, keeping its origin.
func (r Rect) WithSize(s Size) Rect {
	r.Width, r.Height = s.Width, s.Height
	return r
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Intersect returns the overlap of r and o, or the zero Rect when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
