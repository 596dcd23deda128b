package domain

// Notification types.
const (
	NotificationBroadcast = "broadcast"
	NotificationEvent     = "event"
	NotificationGeneral   = "general"
)

type UserStats struct {
	TotalUsers         int64 `json:"total_users"`
	ActiveUsers        int64 `json:"active_users"`
	TotalRegistrations int64 `json:"total_registrations"`
}

type NotificationStats struct {
	TotalNotifications     int64 `json:"total_notifications"`
	BroadcastNotifications int64 `json:"broadcast_notifications"`
	EventNotifications     int64 `json:"event_notifications"`
}

// BroadcastResult summarizes one notification run.
type BroadcastResult struct {
	TotalSent   int     `json:"total_sent"`
	TotalFailed int     `json:"total_failed"`
	FailedUsers []int64 `json:"failed_users,omitempty"`
}
