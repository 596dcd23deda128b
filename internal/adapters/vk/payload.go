package vk

import "encoding/json"

// Command is one decoded keyboard payload. Each concrete type carries only
// the fields its command needs; decoding happens once, here, at the
// boundary. Handlers never look at raw payload JSON.
type Command interface{ isCommand() }

type MainMenuCommand struct{}
type EventsCommand struct{}
type HelpCommand struct{}
type ContactsCommand struct{}
type MyRegistrationsCommand struct{}

type SelectCityCommand struct{ CityID int64 }
type EventDetailsCommand struct{ EventID int64 }
type RegisterCommand struct{ EventID int64 }
type ChangeParticipantsCommand struct{ EventID int64 }
type EnterApproximateCountCommand struct{ EventID int64 }
type CancelRegistrationCommand struct{ EventID int64 }

// ConfirmRegisterCommand is a participant count picked from the keyboard
// grid; the flow continues with the team name prompt.
type ConfirmRegisterCommand struct {
	EventID           int64
	ParticipantsCount int
}

// ConfirmRegisterWithTeamCommand is the final confirmation button; it
// triggers the actual registration.
type ConfirmRegisterWithTeamCommand struct {
	EventID           int64
	ParticipantsCount int
	TeamName          string
	Approximate       bool
}

type ConfirmChangeParticipantsCommand struct {
	EventID           int64
	ParticipantsCount int
}

func (MainMenuCommand) isCommand()                  {}
func (EventsCommand) isCommand()                    {}
func (HelpCommand) isCommand()                      {}
func (ContactsCommand) isCommand()                  {}
func (MyRegistrationsCommand) isCommand()           {}
func (SelectCityCommand) isCommand()                {}
func (EventDetailsCommand) isCommand()              {}
func (RegisterCommand) isCommand()                  {}
func (ChangeParticipantsCommand) isCommand()        {}
func (EnterApproximateCountCommand) isCommand()     {}
func (CancelRegistrationCommand) isCommand()        {}
func (ConfirmRegisterCommand) isCommand()           {}
func (ConfirmRegisterWithTeamCommand) isCommand()   {}
func (ConfirmChangeParticipantsCommand) isCommand() {}

// payloadEnvelope is the wire shape of every button payload the bot emits.
type payloadEnvelope struct {
	Command           string `json:"command"`
	CityID            int64  `json:"cityId,omitempty"`
	EventID           int64  `json:"eventId,omitempty"`
	ParticipantsCount int    `json:"participantsCount,omitempty"`
	TeamName          string `json:"teamName,omitempty"`
	Approximately     bool   `json:"approximately,omitempty"`
}

// ParseCommand decodes a message payload. ok is false for an empty payload,
// malformed JSON, or an unknown command name; the caller falls back to the
// main menu in every such case.
func ParseCommand(raw string) (Command, bool) {
	if raw == "" {
		return nil, false
	}
	var env payloadEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, false
	}

	switch env.Command {
	case "start_bot", "main_menu":
		return MainMenuCommand{}, true
	case "events":
		return EventsCommand{}, true
	case "select_city":
		return SelectCityCommand{CityID: env.CityID}, true
	case "event_details":
		return EventDetailsCommand{EventID: env.EventID}, true
	case "register":
		return RegisterCommand{EventID: env.EventID}, true
	case "confirm_register":
		return ConfirmRegisterCommand{
			EventID:           env.EventID,
			ParticipantsCount: env.ParticipantsCount,
		}, true
	case "confirm_register_with_team":
		return ConfirmRegisterWithTeamCommand{
			EventID:           env.EventID,
			ParticipantsCount: env.ParticipantsCount,
			TeamName:          env.TeamName,
			Approximate:       env.Approximately,
		}, true
	case "cancel_registration":
		return CancelRegistrationCommand{EventID: env.EventID}, true
	case "change_participants":
		return ChangeParticipantsCommand{EventID: env.EventID}, true
	case "confirm_change_participants":
		return ConfirmChangeParticipantsCommand{
			EventID:           env.EventID,
			ParticipantsCount: env.ParticipantsCount,
		}, true
	case "enter_approximate_count":
		return EnterApproximateCountCommand{EventID: env.EventID}, true
	case "my_registrations":
		return MyRegistrationsCommand{}, true
	case "help":
		return HelpCommand{}, true
	case "contacts":
		return ContactsCommand{}, true
	}
	return nil, false
}
