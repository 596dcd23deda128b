package vk

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{name: "start bot", raw: `{"command":"start_bot"}`, want: MainMenuCommand{}},
		{name: "main menu", raw: `{"command":"main_menu"}`, want: MainMenuCommand{}},
		{name: "events", raw: `{"command":"events"}`, want: EventsCommand{}},
		{name: "select city", raw: `{"command":"select_city","cityId":2}`, want: SelectCityCommand{CityID: 2}},
		{name: "event details", raw: `{"command":"event_details","eventId":7}`, want: EventDetailsCommand{EventID: 7}},
		{name: "register", raw: `{"command":"register","eventId":7}`, want: RegisterCommand{EventID: 7}},
		{
			name: "count picked",
			raw:  `{"command":"confirm_register","eventId":7,"participantsCount":4}`,
			want: ConfirmRegisterCommand{EventID: 7, ParticipantsCount: 4},
		},
		{
			name: "final confirmation",
			raw:  `{"command":"confirm_register_with_team","eventId":7,"participantsCount":4,"teamName":"Альфа","approximately":true}`,
			want: ConfirmRegisterWithTeamCommand{EventID: 7, ParticipantsCount: 4, TeamName: "Альфа", Approximate: true},
		},
		{name: "change", raw: `{"command":"change_participants","eventId":7}`, want: ChangeParticipantsCommand{EventID: 7}},
		{
			name: "confirm change",
			raw:  `{"command":"confirm_change_participants","eventId":7,"participantsCount":2}`,
			want: ConfirmChangeParticipantsCommand{EventID: 7, ParticipantsCount: 2},
		},
		{name: "approximate", raw: `{"command":"enter_approximate_count","eventId":7}`, want: EnterApproximateCountCommand{EventID: 7}},
		{name: "cancel", raw: `{"command":"cancel_registration","eventId":7}`, want: CancelRegistrationCommand{EventID: 7}},
		{name: "my registrations", raw: `{"command":"my_registrations"}`, want: MyRegistrationsCommand{}},
		{name: "help", raw: `{"command":"help"}`, want: HelpCommand{}},
		{name: "contacts", raw: `{"command":"contacts"}`, want: ContactsCommand{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseCommand(tc.raw)
			if !ok {
				t.Fatalf("ParseCommand(%q) not ok", tc.raw)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseCommand(%q) = %#v, want %#v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseCommandRejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"not json",
		`{"command":""}`,
		`{"command":"drop_tables"}`,
		`{"eventId":7}`,
	} {
		if cmd, ok := ParseCommand(raw); ok {
			t.Fatalf("ParseCommand(%q) accepted %#v", raw, cmd)
		}
	}
}

func TestPayloadEnvelopeRoundTrip(t *testing.T) {
	// Keyboards emit exactly the shape ParseCommand reads back.
	raw, err := json.Marshal(payloadEnvelope{
		Command:           "confirm_register_with_team",
		EventID:           3,
		ParticipantsCount: 5,
		TeamName:          "Сборная",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	cmd, ok := ParseCommand(string(raw))
	if !ok {
		t.Fatalf("round trip rejected: %s", raw)
	}
	want := ConfirmRegisterWithTeamCommand{EventID: 3, ParticipantsCount: 5, TeamName: "Сборная"}
	if cmd != want {
		t.Fatalf("round trip = %#v, want %#v", cmd, want)
	}
}
