package output

import (
	"context"

	"vkeventsbot/internal/domain/entities"
)

type UserRepository interface {
	// Upsert inserts the profile or refreshes it when the VK user is
	// already known.
	Upsert(ctx context.Context, user *entities.User) error
	// FindByVKID returns domain.ErrUserNotFound when the user is unknown.
	FindByVKID(ctx context.Context, vkUserID int64) (*entities.User, error)
	ListActive(ctx context.Context) ([]entities.User, error)
	// ListByEventID returns the users registered for one event.
	ListByEventID(ctx context.Context, eventID int64) ([]entities.User, error)
	Count(ctx context.Context) (total, active int64, err error)
	Deactivate(ctx context.Context, vkUserID int64) error
}
