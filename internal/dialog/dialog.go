// Package dialog implements the multi-step registration conversation: the
// per-user state store and the transition logic that maps the current step
// plus an incoming text message to the next step, a re-prompt, or a
// terminal action.
//
// State is in-memory only. A process restart drops every conversation back
// to the main menu, which is acceptable: nothing side-effecting happens
// before a terminal action.
package dialog

// Step is the position of one user inside the registration conversation.
type Step int

const (
	StepIdle Step = iota
	StepSelectingParticipants
	StepChangingParticipants
	StepEnteringApproximateCount
	StepEnteringTeamName
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepSelectingParticipants:
		return "selecting_participants"
	case StepChangingParticipants:
		return "changing_participants"
	case StepEnteringApproximateCount:
		return "entering_approximate_count"
	case StepEnteringTeamName:
		return "entering_team_name"
	}
	return "unknown"
}

// State is the ephemeral dialogue position of one user. It exists only
// between the prompt that asked for input and the message answering it.
// StepIdle is never stored; absence of state means idle.
type State struct {
	Step              Step
	EventID           int64
	ParticipantsCount int
	PerTeamMax        int
	IsChanging        bool
	Approximate       bool
}
