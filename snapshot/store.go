// Package snapshot persists the course snapshot: the single serialized
// Course object that is the cross-view source of truth. The contract is
// whole-object replacement only; there are no partial updates, and a missing
// or corrupt snapshot reads as ErrNotFound rather than failing.
package snapshot

import (
	"context"
	"errors"

	"mentai-server/models"
)

// GuestOwner scopes the snapshot key for unauthenticated sessions.
const GuestOwner = "guest"

// ErrNotFound is returned by Load when no snapshot exists for the owner.
// Corruption maps to the same error: callers treat both as absence.
var ErrNotFound = errors.New("course snapshot not found")

// Store is the persisted-course-snapshot contract. Each owner holds at most
// one snapshot under a single well-known key.
type Store interface {
	Save(ctx context.Context, owner string, course *models.Course) error
	Load(ctx context.Context, owner string) (*models.Course, error)
	Clear(ctx context.Context, owner string) error
}
