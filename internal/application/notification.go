package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

// NotificationService fans a message out to users and records each run in
// the notifications table. A failed delivery to one user never aborts the
// run; it is counted and logged.
type NotificationService struct {
	users  output.UserRepository
	store  output.NotificationRepository
	sender output.MessageSender
}

func NewNotificationService(
	users output.UserRepository,
	store output.NotificationRepository,
	sender output.MessageSender,
) *NotificationService {
	return &NotificationService{
		users:  users,
		store:  store,
		sender: sender,
	}
}

func (s *NotificationService) Broadcast(ctx context.Context, title, message string) (domain.BroadcastResult, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return domain.BroadcastResult{}, fmt.Errorf("list active users: %w", err)
	}
	result := s.fanOut(ctx, users, message)

	err = s.store.Create(ctx, &entities.Notification{
		Title:   title,
		Message: message,
		Type:    domain.NotificationBroadcast,
		SentAt:  time.Now(),
	})
	if err != nil {
		return result, fmt.Errorf("save notification: %w", err)
	}
	return result, nil
}

func (s *NotificationService) NotifyEventParticipants(ctx context.Context, eventID int64, title, message string) (domain.BroadcastResult, error) {
	users, err := s.users.ListByEventID(ctx, eventID)
	if err != nil {
		return domain.BroadcastResult{}, fmt.Errorf("list event participants: %w", err)
	}
	result := s.fanOut(ctx, users, message)

	err = s.store.Create(ctx, &entities.Notification{
		Title:         title,
		Message:       message,
		Type:          domain.NotificationEvent,
		TargetEventID: &eventID,
		SentAt:        time.Now(),
	})
	if err != nil {
		return result, fmt.Errorf("save notification: %w", err)
	}
	return result, nil
}

func (s *NotificationService) fanOut(ctx context.Context, users []entities.User, message string) domain.BroadcastResult {
	var result domain.BroadcastResult
	for _, u := range users {
		if err := s.sender.SendText(ctx, u.VKUserID, message); err != nil {
			log.Printf("⚠️ notification: send to %d failed: %v", u.VKUserID, err)
			result.TotalFailed++
			result.FailedUsers = append(result.FailedUsers, u.VKUserID)
			continue
		}
		result.TotalSent++
	}
	return result
}

func (s *NotificationService) History(ctx context.Context, limit int) ([]entities.Notification, error) {
	return s.store.History(ctx, limit)
}

func (s *NotificationService) Stats(ctx context.Context) (domain.NotificationStats, error) {
	counts, err := s.store.CountByType(ctx)
	if err != nil {
		return domain.NotificationStats{}, fmt.Errorf("count notifications: %w", err)
	}
	stats := domain.NotificationStats{
		BroadcastNotifications: counts[domain.NotificationBroadcast],
		EventNotifications:     counts[domain.NotificationEvent],
	}
	for _, n := range counts {
		stats.TotalNotifications += n
	}
	return stats, nil
}
