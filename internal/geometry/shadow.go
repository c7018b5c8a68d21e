package geometry

// Shadowed describes a client surface whose reported box includes a
// decoration shadow drawn around the visible content.
type Shadowed struct {
	// Box is the full surface geometry, shadow included.
	Box Rect
	// Shadow is the total extra width and height the shadow adds.
	Shadow Size
}

// Displacement is the offset from the box origin to the visible content.
// The shadow is split evenly between both sides.
func (s Shadowed) Displacement() Displacement {
	return s.Shadow.Half()
}

// Visible returns the rectangle the user actually sees.
func (s Shadowed) Visible() Rect {
	return NewRect(s.Box.TopLeft().Add(s.Displacement()), s.Box.Size().Sub(s.Shadow))
}

// BoxOriginFor returns the box origin that places the visible content at p.
func (s Shadowed) BoxOriginFor(p Point) Point {
	d := s.Displacement()
	return Point{X: p.X - d.DX, Y: p.Y - d.DY}
}

// BoxSizeFor returns the box size that yields visible content of size v.
func (s Shadowed) BoxSizeFor(v Size) Size {
	return Size{Width: v.Width + s.Shadow.Width, Height: v.Height + s.Shadow.Height}
}
