package entities

import "time"

type Notification struct {
	ID            int64
	Title         string
	Message       string
	Type          string // domain.NotificationBroadcast, NotificationEvent, NotificationGeneral
	TargetEventID *int64
	SentAt        time.Time
}
