package wm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrInvariant matches any *InvariantError via errors.Is.
	ErrInvariant = errors.New("invariant violation")
)

// NotFoundError reports a lookup of an id that is not in its store.
type NotFoundError struct {
	Kind string
	ID   uint64
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func windowNotFound(id WindowID) error {
	return &NotFoundError{Kind: "window", ID: uint64(id)}
}

func workspaceNotFound(id WorkspaceID) error {
	return &NotFoundError{Kind: "workspace", ID: uint64(id)}
}

func monitorNotFound(id MonitorID) error {
	return &NotFoundError{Kind: "monitor", ID: uint64(id)}
}

// InvariantError reports store state that contradicts the model, such as a
// window missing from the list of the workspace it claims to belong to.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "invariant violation: " + e.Msg
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func invariantf(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
