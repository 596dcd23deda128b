package output

import (
	"context"

	"vkeventsbot/internal/domain/entities"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	// History returns the most recent notifications, newest first.
	History(ctx context.Context, limit int) ([]entities.Notification, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}
