package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

var _ output.NotificationRepository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO notifications (title, message, notification_type, target_event_id, sent_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		n.Title, n.Message, n.Type, n.TargetEventID, n.SentAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) History(ctx context.Context, limit int) ([]entities.Notification, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, title, message, notification_type, target_event_id, sent_at
FROM notifications
ORDER BY sent_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("notification history: %w", err)
	}
	defer rows.Close()

	var out []entities.Notification
	for rows.Next() {
		var (
			n       entities.Notification
			eventID pgtype.Int8
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &eventID, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if eventID.Valid {
			id := eventID.Int64
			n.TargetEventID = &id
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
SELECT notification_type, count(*)
FROM notifications
GROUP BY notification_type`)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			typ string
			n   int64
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan notification count: %w", err)
		}
		out[typ] = n
	}
	return out, rows.Err()
}
