package entities

import "time"

// Registration joins one user to one event. The (EventID, UserID) pair is
// unique; the database constraint is the source of truth for that.
type Registration struct {
	ID                int64
	EventID           int64
	UserID            int64
	ParticipantsCount int
	TeamName          string // empty = not provided
	Approximate       bool
	RegisteredAt      time.Time
	Event             *Event // attached on listing queries
}
