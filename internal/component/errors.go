package component

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/tilegrid/internal/renderer/core"
)

// Sentinel errors for tree mutations.
var (
	// ErrContainmentViolation is returned when a child would leave its
	// container's bounds or overlap a sibling.
	ErrContainmentViolation = errors.New("containment violation")

	// ErrIdentityViolation is returned when adding a component to itself or
	// to one of its own descendants.
	ErrIdentityViolation = errors.New("identity violation")

	// ErrTilesetMismatch is returned when an explicit tileset's cell size
	// differs from the container's.
	ErrTilesetMismatch = errors.New("tileset mismatch")

	// ErrUnsupportedComponentKind is returned for nil components and for
	// kinds that cannot be nested, such as a root.
	ErrUnsupportedComponentKind = errors.New("unsupported component kind")

	// ErrAlreadyAttached is returned when adding a component that already
	// has a parent.
	ErrAlreadyAttached = fmt.Errorf("%w: component already attached", ErrIdentityViolation)

	// ErrInvariantBroken is returned when a move leaves a child outside its
	// container. The move is rolled back.
	ErrInvariantBroken = errors.New("tree invariant broken")
)

// ComponentError carries the operation and component of a failed mutation.
type ComponentError struct {
	Op  string
	ID  uuid.UUID
	Err error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	if e.ID == uuid.Nil {
		return fmt.Sprintf("component %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("component %s %s: %v", e.Op, e.ID.String()[:8], e.Err)
}

// Unwrap returns the underlying error.
func (e *ComponentError) Unwrap() error {
	return e.Err
}

func mismatch(got, want core.TilesetResource) error {
	return fmt.Errorf("%w: %dx%d does not match %dx%d",
		ErrTilesetMismatch, got.Width, got.Height, want.Width, want.Height)
}
