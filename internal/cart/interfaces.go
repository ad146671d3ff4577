package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrCartNotFound is returned by repositories when the user has no cart.
	ErrCartNotFound = errors.New("cart not found")
	// ErrVersionConflict is returned when a conditional save loses a race:
	// the stored version moved, or a cart for the user was created concurrently.
	ErrVersionConflict = errors.New("cart version conflict")
)

// Repository persists one cart document per user.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Create inserts a brand new cart; a second cart for the same user fails
	// with ErrVersionConflict.
	Create(ctx context.Context, cart *Cart) error
	// Save replaces items and version only if the stored version still equals
	// expectedVersion.
	Save(ctx context.Context, cart *Cart, expectedVersion int64) error
}

// Cache holds read-through cart snapshots keyed by user. Set must not replace
// a snapshot with one of a lower Version.
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, bool, error)
	Set(ctx context.Context, cart *Cart) error
	// Invalidate drops the snapshot and rejects later Sets below version.
	Invalidate(ctx context.Context, userID uuid.UUID, version int64) error
}
