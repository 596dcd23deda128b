package output

import (
	"context"

	"vkeventsbot/internal/domain/entities"
)

// RegistrationStore is the set of registration operations that runs either
// directly against the pool or inside an event-scoped transaction.
type RegistrationStore interface {
	// Find returns (nil, nil) when no registration exists for the pair.
	Find(ctx context.Context, eventID, userID int64) (*entities.Registration, error)
	// FindByUserID returns the user's registrations with events attached,
	// newest first.
	FindByUserID(ctx context.Context, userID int64) ([]entities.Registration, error)
	// SumParticipants totals participants_count over all registrations of
	// one event.
	SumParticipants(ctx context.Context, eventID int64) (int, error)
	// Create inserts a registration. A unique-constraint violation on
	// (event_id, user_id) is reported as domain.ErrAlreadyRegistered.
	Create(ctx context.Context, reg *entities.Registration) error
	UpdateCount(ctx context.Context, eventID, userID int64, count int) error
	// Delete is idempotent: removing an absent row is not an error.
	Delete(ctx context.Context, eventID, userID int64) error
	CountAll(ctx context.Context) (int64, error)
}

type RegistrationRepository interface {
	RegistrationStore
	// WithEventLock runs fn inside a transaction that holds an exclusive
	// per-event lock, serializing the read-check-write sequence of the
	// capacity invariant for that event.
	WithEventLock(ctx context.Context, eventID int64, fn func(RegistrationStore) error) error
}
