package input

import (
	"context"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
)

type NotificationUseCase interface {
	Broadcast(ctx context.Context, title, message string) (domain.BroadcastResult, error)
	NotifyEventParticipants(ctx context.Context, eventID int64, title, message string) (domain.BroadcastResult, error)
	History(ctx context.Context, limit int) ([]entities.Notification, error)
	Stats(ctx context.Context) (domain.NotificationStats, error)
}
