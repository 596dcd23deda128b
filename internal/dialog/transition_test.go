package dialog

import (
	"strings"
	"testing"
)

func TestAdvanceIdleGoesToMainMenu(t *testing.T) {
	res := Advance(State{}, "anything")
	if res.Next != nil || res.Action != nil {
		t.Fatalf("expected pure main menu fallback, got %+v", res)
	}
	if res.Prompt != PromptMainMenu {
		t.Fatalf("expected PromptMainMenu, got %v", res.Prompt)
	}
}

func TestAdvanceCountAccepted(t *testing.T) {
	st := State{Step: StepSelectingParticipants, EventID: 7, PerTeamMax: 12}

	res := Advance(st, " 5 ")
	if res.Action != nil {
		t.Fatalf("registration must not be terminal before the team name, got %+v", res.Action)
	}
	if res.Next == nil || res.Next.Step != StepEnteringTeamName {
		t.Fatalf("expected team name step, got %+v", res.Next)
	}
	if res.Next.ParticipantsCount != 5 {
		t.Fatalf("expected count 5, got %d", res.Next.ParticipantsCount)
	}
	if res.Next.EventID != 7 {
		t.Fatalf("event id must carry over, got %d", res.Next.EventID)
	}
	if res.Prompt != PromptTeamName {
		t.Fatalf("expected PromptTeamName, got %v", res.Prompt)
	}
}

func TestAdvanceInvalidCountNeverAdvances(t *testing.T) {
	st := State{Step: StepSelectingParticipants, EventID: 7, PerTeamMax: 12}

	for _, input := range []string{"0", "-1", "13", "abc", "", "  ", "2.5", "1e1", "999999999999999999999"} {
		res := Advance(st, input)
		if res.Action != nil {
			t.Fatalf("input %q: must not produce an action", input)
		}
		if res.Prompt != PromptInvalidCount {
			t.Fatalf("input %q: expected PromptInvalidCount, got %v", input, res.Prompt)
		}
		if res.Next == nil || *res.Next != st {
			t.Fatalf("input %q: state must be preserved, got %+v", input, res.Next)
		}
	}
}

func TestAdvanceChangingCountIsTerminal(t *testing.T) {
	st := State{Step: StepChangingParticipants, EventID: 3, PerTeamMax: 12, IsChanging: true}

	res := Advance(st, "4")
	if res.Action == nil {
		t.Fatal("expected a terminal action")
	}
	if res.Action.Kind != ActionConfirmChange {
		t.Fatalf("expected ActionConfirmChange, got %v", res.Action.Kind)
	}
	if res.Action.EventID != 3 || res.Action.ParticipantsCount != 4 {
		t.Fatalf("unexpected action payload: %+v", res.Action)
	}
}

func TestAdvanceApproximateCountFlagsRegistration(t *testing.T) {
	st := State{Step: StepEnteringApproximateCount, EventID: 9, PerTeamMax: 12}

	res := Advance(st, "10")
	if res.Next == nil || res.Next.Step != StepEnteringTeamName {
		t.Fatalf("expected team name step, got %+v", res.Next)
	}
	if !res.Next.Approximate {
		t.Fatal("approximate flag must survive into the team name step")
	}

	final := Advance(*res.Next, "Сборная")
	if final.Action == nil || !final.Action.Approximate {
		t.Fatalf("approximate flag must reach the action, got %+v", final.Action)
	}
}

func TestAdvanceTeamName(t *testing.T) {
	st := State{Step: StepEnteringTeamName, EventID: 5, ParticipantsCount: 3, PerTeamMax: 12}

	tests := []struct {
		name   string
		input  string
		prompt Prompt
		team   string
	}{
		{name: "accepted", input: "Лучшая команда", team: "Лучшая команда"},
		{name: "trimmed", input: "  Alpha  ", team: "Alpha"},
		{name: "exactly fifty runes", input: strings.Repeat("я", 50), team: strings.Repeat("я", 50)},
		{name: "whitespace only", input: "   \t  ", prompt: PromptTeamNameEmpty},
		{name: "empty", input: "", prompt: PromptTeamNameEmpty},
		{name: "fifty one runes", input: strings.Repeat("я", 51), prompt: PromptTeamNameTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Advance(st, tc.input)
			if tc.prompt != PromptNone {
				if res.Action != nil {
					t.Fatalf("expected re-prompt, got action %+v", res.Action)
				}
				if res.Prompt != tc.prompt {
					t.Fatalf("expected prompt %v, got %v", tc.prompt, res.Prompt)
				}
				if res.Next == nil || *res.Next != st {
					t.Fatalf("state must be preserved, got %+v", res.Next)
				}
				return
			}
			if res.Action == nil {
				t.Fatalf("expected a terminal action, got %+v", res)
			}
			if res.Action.Kind != ActionConfirmRegistration {
				t.Fatalf("expected ActionConfirmRegistration, got %v", res.Action.Kind)
			}
			if res.Action.TeamName != tc.team {
				t.Fatalf("expected team %q, got %q", tc.team, res.Action.TeamName)
			}
			if res.Action.ParticipantsCount != 3 || res.Action.EventID != 5 {
				t.Fatalf("count and event must carry over, got %+v", res.Action)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  int
		ok    bool
	}{
		{"1", 12, 1, true},
		{"12", 12, 12, true},
		{" 7 ", 12, 7, true},
		{"0", 12, 0, false},
		{"13", 12, 0, false},
		{"-3", 12, 0, false},
		{"seven", 12, 0, false},
		{"", 12, 0, false},
		{"3", 2, 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseCount(tc.input, tc.max)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseCount(%q, %d) = (%d, %v), want (%d, %v)", tc.input, tc.max, got, ok, tc.want, tc.ok)
		}
	}
}
