package dialog

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxTeamNameLen is the team name limit in Unicode code points. Counting
// runes, not bytes, keeps the limit fair for Cyrillic names.
const MaxTeamNameLen = 50

// Prompt tells the caller what to render after a transition.
type Prompt int

const (
	PromptNone Prompt = iota
	// PromptMainMenu: no state or unrecognized input; state is cleared.
	PromptMainMenu
	// PromptInvalidCount: re-render the count prompt with an error prefix;
	// state is unchanged.
	PromptInvalidCount
	// PromptTeamName: count accepted, ask for the team name.
	PromptTeamName
	// PromptTeamNameEmpty / PromptTeamNameTooLong: re-render the team name
	// prompt with an error prefix; state is unchanged.
	PromptTeamNameEmpty
	PromptTeamNameTooLong
)

// ActionKind is a terminal transition: the machine is done collecting input
// and the caller must run the corresponding confirmation.
type ActionKind int

const (
	// ActionConfirmRegistration shows the final registration confirmation.
	ActionConfirmRegistration ActionKind = iota + 1
	// ActionConfirmChange shows the participant-count change confirmation.
	ActionConfirmChange
)

type Action struct {
	Kind              ActionKind
	EventID           int64
	ParticipantsCount int
	TeamName          string
	Approximate       bool
}

// Result of feeding one text message to the machine. Exactly one of the
// following holds:
//   - Action != nil: terminal step; the caller clears the state before
//     performing the action, so a redelivered webhook restarts from idle
//     instead of replaying the transition.
//   - Next != nil: store Next and render Prompt.
//   - Next == nil: clear the state and render Prompt (main menu fallback).
type Result struct {
	Next   *State
	Prompt Prompt
	Action *Action
}

// Advance applies one free-text message to the current state. It never
// mutates st; validation failures return the state as-is so the dialogue
// can only loop on the same prompt, never advance on bad input.
func Advance(st State, text string) Result {
	switch st.Step {
	case StepSelectingParticipants, StepChangingParticipants:
		n, ok := ParseCount(text, st.PerTeamMax)
		if !ok {
			return Result{Next: &st, Prompt: PromptInvalidCount}
		}
		if st.IsChanging {
			return Result{Action: &Action{
				Kind:              ActionConfirmChange,
				EventID:           st.EventID,
				ParticipantsCount: n,
			}}
		}
		next := State{
			Step:              StepEnteringTeamName,
			EventID:           st.EventID,
			ParticipantsCount: n,
			PerTeamMax:        st.PerTeamMax,
		}
		return Result{Next: &next, Prompt: PromptTeamName}

	case StepEnteringApproximateCount:
		n, ok := ParseCount(text, st.PerTeamMax)
		if !ok {
			return Result{Next: &st, Prompt: PromptInvalidCount}
		}
		next := State{
			Step:              StepEnteringTeamName,
			EventID:           st.EventID,
			ParticipantsCount: n,
			PerTeamMax:        st.PerTeamMax,
			Approximate:       true,
		}
		return Result{Next: &next, Prompt: PromptTeamName}

	case StepEnteringTeamName:
		name := strings.TrimSpace(text)
		if name == "" {
			return Result{Next: &st, Prompt: PromptTeamNameEmpty}
		}
		if utf8.RuneCountInString(name) > MaxTeamNameLen {
			return Result{Next: &st, Prompt: PromptTeamNameTooLong}
		}
		return Result{Action: &Action{
			Kind:              ActionConfirmRegistration,
			EventID:           st.EventID,
			ParticipantsCount: st.ParticipantsCount,
			TeamName:          name,
			Approximate:       st.Approximate,
		}}
	}

	return Result{Prompt: PromptMainMenu}
}

// ParseCount parses a participant count and checks it against [1, max].
func ParseCount(text string, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
