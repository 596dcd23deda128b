package vk

import (
	"github.com/SevereCloud/vksdk/v2/object"

	"vkeventsbot/internal/domain/entities"
)

// VK button colors.
const (
	colorPrimary   = "primary"
	colorSecondary = "secondary"
	colorPositive  = "positive"
	colorNegative  = "negative"
)

// countGridLimit bounds the size of the participant-count button grid; the
// text input still accepts any count up to the event's per-team maximum.
const countGridLimit = 10

func (r *Renderer) button(key string) string {
	return r.tr.T(r.locale, "button."+key, nil)
}

func (r *Renderer) WelcomeKeyboard() *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	kb.AddTextButton(r.button("start"), payloadEnvelope{Command: "start_bot"}, colorPositive)
	return kb
}

func (r *Renderer) MainMenuKeyboard() *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	kb.AddTextButton(r.button("events"), payloadEnvelope{Command: "events"}, colorPrimary)
	kb.AddTextButton(r.button("my_registrations"), payloadEnvelope{Command: "my_registrations"}, colorSecondary)
	kb.AddRow()
	kb.AddTextButton(r.button("help"), payloadEnvelope{Command: "help"}, colorSecondary)
	kb.AddTextButton(r.button("contacts"), payloadEnvelope{Command: "contacts"}, colorSecondary)
	return kb
}

func (r *Renderer) CitiesKeyboard(cities []entities.City) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	for i, c := range cities {
		if i%2 == 0 {
			kb.AddRow()
		}
		kb.AddTextButton(truncateLabel(c.Name, 20), payloadEnvelope{Command: "select_city", CityID: c.ID}, colorPrimary)
	}
	kb.AddRow()
	kb.AddTextButton(r.button("back"), payloadEnvelope{Command: "main_menu"}, colorSecondary)
	return kb
}

func (r *Renderer) EventsKeyboard(events []entities.Event) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	for i, e := range events {
		if i%2 == 0 {
			kb.AddRow()
		}
		kb.AddTextButton(truncateLabel(e.Title, 20), payloadEnvelope{Command: "event_details", EventID: e.ID}, colorPrimary)
	}
	kb.AddRow()
	kb.AddTextButton(r.button("back"), payloadEnvelope{Command: "events"}, colorSecondary)
	return kb
}

// EventDetailsKeyboard offers registration for new users and
// change/cancel for already registered ones.
func (r *Renderer) EventDetailsKeyboard(event *entities.Event, registered bool) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	if !registered {
		kb.AddTextButton(r.button("register"), payloadEnvelope{Command: "register", EventID: event.ID}, colorPositive)
	} else {
		kb.AddTextButton(r.button("change_participants"), payloadEnvelope{Command: "change_participants", EventID: event.ID}, colorPrimary)
		kb.AddTextButton(r.button("cancel_registration"), payloadEnvelope{Command: "cancel_registration", EventID: event.ID}, colorNegative)
	}
	kb.AddRow()
	kb.AddTextButton(r.button("back_events"), payloadEnvelope{Command: "events"}, colorSecondary)
	return kb
}

// CountKeyboard is the participant-count grid: buttons 1..min(perTeamMax,
// 10) three per row, plus the approximate-count entry on the registration
// path and a back button.
func (r *Renderer) CountKeyboard(eventID int64, isChanging bool, perTeamMax int) *object.MessagesKeyboard {
	command := "confirm_register"
	if isChanging {
		command = "confirm_change_participants"
	}
	limit := perTeamMax
	if limit > countGridLimit {
		limit = countGridLimit
	}

	kb := object.NewMessagesKeyboard(true)
	for n := 1; n <= limit; n++ {
		if (n-1)%3 == 0 {
			kb.AddRow()
		}
		kb.AddTextButton(itoa(n), payloadEnvelope{
			Command:           command,
			EventID:           eventID,
			ParticipantsCount: n,
		}, colorPrimary)
	}
	if !isChanging {
		kb.AddRow()
		kb.AddTextButton(r.button("approximate"), payloadEnvelope{Command: "enter_approximate_count", EventID: eventID}, colorSecondary)
	}
	kb.AddRow()
	kb.AddTextButton(r.button("back"), payloadEnvelope{Command: "event_details", EventID: eventID}, colorSecondary)
	return kb
}

// TeamNameKeyboard accompanies the team name prompt: skipping keeps the
// picked count and registers without a team.
func (r *Renderer) TeamNameKeyboard(eventID int64, participantsCount int, approximate bool) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	if participantsCount > 0 {
		kb.AddTextButton(r.button("skip"), payloadEnvelope{
			Command:           "confirm_register_with_team",
			EventID:           eventID,
			ParticipantsCount: participantsCount,
			Approximately:     approximate,
		}, colorSecondary)
	}
	kb.AddTextButton(r.button("back"), payloadEnvelope{Command: "register", EventID: eventID}, colorSecondary)
	return kb
}

func (r *Renderer) RegistrationConfirmKeyboard(eventID int64, participantsCount int, teamName string, approximate bool) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	kb.AddTextButton(r.button("confirm_register"), payloadEnvelope{
		Command:           "confirm_register_with_team",
		EventID:           eventID,
		ParticipantsCount: participantsCount,
		TeamName:          teamName,
		Approximately:     approximate,
	}, colorPositive)
	kb.AddTextButton(r.button("cancel"), payloadEnvelope{Command: "event_details", EventID: eventID}, colorNegative)
	return kb
}

func (r *Renderer) ChangeConfirmKeyboard(eventID int64, participantsCount int) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	kb.AddTextButton(r.button("confirm_change"), payloadEnvelope{
		Command:           "confirm_change_participants",
		EventID:           eventID,
		ParticipantsCount: participantsCount,
	}, colorPositive)
	kb.AddTextButton(r.button("cancel"), payloadEnvelope{Command: "event_details", EventID: eventID}, colorNegative)
	return kb
}

func (r *Renderer) MyRegistrationsKeyboard(regs []entities.Registration) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	for i, reg := range regs {
		if i%2 == 0 {
			kb.AddRow()
		}
		label := "#" + itoa(int(reg.EventID))
		if reg.Event != nil {
			label = truncateLabel(reg.Event.Title, 15)
		}
		kb.AddTextButton(label, payloadEnvelope{Command: "event_details", EventID: reg.EventID}, colorPrimary)
	}
	kb.AddRow()
	kb.AddTextButton(r.button("back_menu"), payloadEnvelope{Command: "main_menu"}, colorSecondary)
	return kb
}

func (r *Renderer) BackToEventKeyboard(eventID int64) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	kb.AddTextButton(r.button("back"), payloadEnvelope{Command: "event_details", EventID: eventID}, colorSecondary)
	return kb
}

func (r *Renderer) HelpKeyboard() *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(true)
	kb.AddRow()
	kb.AddTextButton(r.button("back_menu"), payloadEnvelope{Command: "main_menu"}, colorSecondary)
	return kb
}

// truncateLabel shortens a button label to max runes, ellipsized.
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
