package wm

// WindowID, WorkspaceID and MonitorID are issued by separate generators.
// Zero is never issued and stands for "none".
type (
	WindowID    uint64
	WorkspaceID uint64
	MonitorID   uint64
)

// Generator hands out strictly increasing ids starting at 1.
type Generator[T ~uint64] struct {
	last T
}

// Next returns a fresh id.
func (g *Generator[T]) Next() T {
	g.last++
	return g.last
}

// Last returns the most recently issued id, or zero if none was issued.
func (g *Generator[T]) Last() T {
	return g.last
}
