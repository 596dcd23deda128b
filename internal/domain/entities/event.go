package entities

import "time"

// DefaultMaxParticipantsPerTeam caps a single registration when the event
// does not define its own per-team maximum.
const DefaultMaxParticipantsPerTeam = 12

type Event struct {
	ID                     int64
	Title                  string
	Description            string
	EventDate              time.Time
	Host                   string
	Price                  *float64 // nil = not announced, 0 = free
	MaxParticipants        int      // 0 = no capacity cap
	MaxParticipantsPerTeam int      // 0 = DefaultMaxParticipantsPerTeam applies
	IsActive               bool
	Location               *Location
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PerTeamMax is the participant-count bound for one registration. The event
// value is authoritative for every count-collection variant; the default
// only fills in when the event sets nothing.
func (e *Event) PerTeamMax() int {
	if e.MaxParticipantsPerTeam > 0 {
		return e.MaxParticipantsPerTeam
	}
	return DefaultMaxParticipantsPerTeam
}
