package vk

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/SevereCloud/vksdk/v2/events"
	"github.com/SevereCloud/vksdk/v2/object"

	"vkeventsbot/internal/dialog"
	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/input"
)

type sendFunc func(ctx context.Context, userID int64, text string, kb *object.MessagesKeyboard) error

type profileFunc func(ctx context.Context, vkUserID int64) (*entities.User, error)

// MessageHandler routes one incoming personal message: keyboard payloads go
// through the command dispatch, free text goes through the dialogue machine.
// All work for one user happens under that user's dialogue lock, so two
// near-simultaneous messages from the same user cannot interleave.
type MessageHandler struct {
	events  input.EventUseCase
	regs    input.RegistrationUseCase
	users   input.UserUseCase
	dialogs *dialog.Store
	render  *Renderer
	locale  string

	send    sendFunc
	profile profileFunc
}

func NewMessageHandler(
	eventUC input.EventUseCase,
	regUC input.RegistrationUseCase,
	userUC input.UserUseCase,
	dialogs *dialog.Store,
	render *Renderer,
	locale string,
	send sendFunc,
	profile profileFunc,
) *MessageHandler {
	return &MessageHandler{
		events:  eventUC,
		regs:    regUC,
		users:   userUC,
		dialogs: dialogs,
		render:  render,
		locale:  locale,
		send:    send,
		profile: profile,
	}
}

// HandleMessage processes one message_new event.
func (h *MessageHandler) HandleMessage(ctx context.Context, obj events.MessageNewObject) {
	userID := int64(obj.Message.FromID)

	unlock := h.dialogs.Lock(userID)
	defer unlock()

	h.saveProfile(ctx, userID)

	if cmd, ok := ParseCommand(obj.Message.Payload); ok {
		h.handleCommand(ctx, userID, cmd)
		return
	}
	h.handleText(ctx, userID, obj.Message.Text)
}

// saveProfile refreshes the sender's profile on every message. Failures are
// logged and ignored: profile data is nice to have, the dialogue is not.
func (h *MessageHandler) saveProfile(ctx context.Context, userID int64) {
	if h.profile == nil {
		return
	}
	user, err := h.profile(ctx, userID)
	if err != nil {
		log.Printf("⚠️ vk: fetch profile %d: %v", userID, err)
		return
	}
	if err := h.users.SaveProfile(ctx, user); err != nil {
		log.Printf("⚠️ vk: save profile %d: %v", userID, err)
	}
}

func (h *MessageHandler) handleCommand(ctx context.Context, userID int64, cmd Command) {
	// Any button press abandons a pending text prompt.
	h.dialogs.Clear(userID)

	switch c := cmd.(type) {
	case MainMenuCommand:
		h.sendMainMenu(ctx, userID)
	case EventsCommand:
		h.showCities(ctx, userID)
	case SelectCityCommand:
		h.showCityEvents(ctx, userID, c.CityID)
	case EventDetailsCommand:
		h.showEventDetails(ctx, userID, c.EventID)
	case RegisterCommand:
		h.startRegistration(ctx, userID, c.EventID)
	case ChangeParticipantsCommand:
		h.startCountChange(ctx, userID, c.EventID)
	case EnterApproximateCountCommand:
		h.startApproximateCount(ctx, userID, c.EventID)
	case ConfirmRegisterCommand:
		h.askTeamName(ctx, userID, c.EventID, c.ParticipantsCount, false)
	case ConfirmRegisterWithTeamCommand:
		h.finishRegistration(ctx, userID, c)
	case ConfirmChangeParticipantsCommand:
		h.finishCountChange(ctx, userID, c.EventID, c.ParticipantsCount)
	case CancelRegistrationCommand:
		h.cancelRegistration(ctx, userID, c.EventID)
	case MyRegistrationsCommand:
		h.showMyRegistrations(ctx, userID)
	case HelpCommand:
		h.reply(ctx, userID, h.render.Text("help", nil), h.render.HelpKeyboard())
	case ContactsCommand:
		h.reply(ctx, userID, h.render.Text("contacts", nil), h.render.HelpKeyboard())
	default:
		h.sendMainMenu(ctx, userID)
	}
}

func (h *MessageHandler) handleText(ctx context.Context, userID int64, text string) {
	if st, ok := h.dialogs.Get(userID); ok {
		h.advanceDialog(ctx, userID, st, text)
		return
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "start", "начать", "привет":
		h.reply(ctx, userID, h.render.Text("welcome", nil), h.render.WelcomeKeyboard())
	case "меню", "menu":
		h.sendMainMenu(ctx, userID)
	case "мероприятия", "events":
		h.showCities(ctx, userID)
	case "мои регистрации", "регистрации", "registrations":
		h.showMyRegistrations(ctx, userID)
	case "помощь", "help":
		h.reply(ctx, userID, h.render.Text("help", nil), h.render.HelpKeyboard())
	default:
		h.sendMainMenu(ctx, userID)
	}
}

// advanceDialog feeds one text message to the dialogue machine and renders
// the outcome. Terminal actions clear the state before any side effect, so
// a redelivered webhook restarts from the main menu instead of replaying.
func (h *MessageHandler) advanceDialog(ctx context.Context, userID int64, st dialog.State, text string) {
	res := dialog.Advance(st, text)

	if res.Action != nil {
		h.dialogs.Clear(userID)
		switch res.Action.Kind {
		case dialog.ActionConfirmRegistration:
			h.confirmRegistration(ctx, userID, res.Action)
		case dialog.ActionConfirmChange:
			h.confirmCountChange(ctx, userID, res.Action)
		}
		return
	}

	if res.Next == nil {
		h.dialogs.Clear(userID)
		h.sendMainMenu(ctx, userID)
		return
	}

	next := *res.Next
	h.dialogs.Set(userID, next)
	switch res.Prompt {
	case dialog.PromptInvalidCount:
		h.reply(ctx, userID,
			h.render.Text("count.invalid", map[string]any{"Max": next.PerTeamMax}),
			h.render.CountKeyboard(next.EventID, next.IsChanging, next.PerTeamMax))
	case dialog.PromptTeamName:
		h.reply(ctx, userID,
			h.render.Text("team.prompt", nil),
			h.render.TeamNameKeyboard(next.EventID, next.ParticipantsCount, next.Approximate))
	case dialog.PromptTeamNameEmpty:
		h.reply(ctx, userID,
			h.render.Text("team.empty", nil),
			h.render.TeamNameKeyboard(next.EventID, next.ParticipantsCount, next.Approximate))
	case dialog.PromptTeamNameTooLong:
		h.reply(ctx, userID,
			h.render.Text("team.too_long", nil),
			h.render.TeamNameKeyboard(next.EventID, next.ParticipantsCount, next.Approximate))
	default:
		h.sendMainMenu(ctx, userID)
	}
}

func (h *MessageHandler) sendMainMenu(ctx context.Context, userID int64) {
	h.reply(ctx, userID, h.render.Text("main_menu", nil), h.render.MainMenuKeyboard())
}

func (h *MessageHandler) showCities(ctx context.Context, userID int64) {
	cities, err := h.events.ListCities(ctx)
	if err != nil {
		h.sendError(ctx, userID, "list cities", err)
		return
	}
	if len(cities) == 0 {
		h.reply(ctx, userID, h.render.Text("cities.empty", nil), h.render.MainMenuKeyboard())
		return
	}
	h.reply(ctx, userID, h.render.Text("cities.prompt", nil), h.render.CitiesKeyboard(cities))
}

func (h *MessageHandler) showCityEvents(ctx context.Context, userID int64, cityID int64) {
	city, err := h.events.GetCityByID(ctx, cityID)
	if err != nil {
		h.sendError(ctx, userID, "find city", err)
		return
	}
	list, err := h.events.ListUpcomingByCity(ctx, cityID)
	if err != nil {
		h.sendError(ctx, userID, "list events", err)
		return
	}
	if len(list) == 0 {
		h.reply(ctx, userID, h.render.EventsList(city, list), h.render.MainMenuKeyboard())
		return
	}
	h.reply(ctx, userID, h.render.EventsList(city, list), h.render.EventsKeyboard(list))
}

func (h *MessageHandler) showEventDetails(ctx context.Context, userID int64, eventID int64) {
	event, reg, ok := h.loadEventWithRegistration(ctx, userID, eventID)
	if !ok {
		return
	}
	h.reply(ctx, userID, h.render.EventDetails(event, reg), h.render.EventDetailsKeyboard(event, reg != nil))
}

func (h *MessageHandler) startRegistration(ctx context.Context, userID int64, eventID int64) {
	event, reg, ok := h.loadEventWithRegistration(ctx, userID, eventID)
	if !ok {
		return
	}
	if reg != nil {
		h.reply(ctx, userID,
			h.render.Text("registration.already_registered", nil),
			h.render.EventDetailsKeyboard(event, true))
		return
	}

	max := event.PerTeamMax()
	h.dialogs.Set(userID, dialog.State{
		Step:       dialog.StepSelectingParticipants,
		EventID:    eventID,
		PerTeamMax: max,
	})
	h.reply(ctx, userID,
		h.render.Text("count.prompt", map[string]any{"Max": max}),
		h.render.CountKeyboard(eventID, false, max))
}

func (h *MessageHandler) startCountChange(ctx context.Context, userID int64, eventID int64) {
	event, reg, ok := h.loadEventWithRegistration(ctx, userID, eventID)
	if !ok {
		return
	}
	if reg == nil {
		h.reply(ctx, userID,
			h.render.Text("registration.not_registered", nil),
			h.render.EventDetailsKeyboard(event, false))
		return
	}

	max := event.PerTeamMax()
	h.dialogs.Set(userID, dialog.State{
		Step:       dialog.StepChangingParticipants,
		EventID:    eventID,
		PerTeamMax: max,
		IsChanging: true,
	})
	h.reply(ctx, userID,
		h.render.Text("count.prompt_changing", map[string]any{
			"Current": reg.ParticipantsCount,
			"Max":     max,
		}),
		h.render.CountKeyboard(eventID, true, max))
}

func (h *MessageHandler) startApproximateCount(ctx context.Context, userID int64, eventID int64) {
	event, err := h.events.GetEventByID(ctx, eventID)
	if err != nil {
		h.sendError(ctx, userID, "find event", err)
		return
	}

	max := event.PerTeamMax()
	h.dialogs.Set(userID, dialog.State{
		Step:       dialog.StepEnteringApproximateCount,
		EventID:    eventID,
		PerTeamMax: max,
	})
	h.reply(ctx, userID,
		h.render.Text("approximate.prompt", map[string]any{"Max": max}),
		h.render.BackToEventKeyboard(eventID))
}

// askTeamName handles a count picked from the keyboard grid: same state as
// a typed count, the team name prompt follows.
func (h *MessageHandler) askTeamName(ctx context.Context, userID int64, eventID int64, count int, approximate bool) {
	event, err := h.events.GetEventByID(ctx, eventID)
	if err != nil {
		h.sendError(ctx, userID, "find event", err)
		return
	}
	if count < 1 || count > event.PerTeamMax() {
		h.sendMainMenu(ctx, userID)
		return
	}

	h.dialogs.Set(userID, dialog.State{
		Step:              dialog.StepEnteringTeamName,
		EventID:           eventID,
		ParticipantsCount: count,
		PerTeamMax:        event.PerTeamMax(),
		Approximate:       approximate,
	})
	h.reply(ctx, userID,
		h.render.Text("team.prompt", nil),
		h.render.TeamNameKeyboard(eventID, count, approximate))
}

// confirmRegistration shows the final confirmation; the confirm button
// carries the whole registration in its payload.
func (h *MessageHandler) confirmRegistration(ctx context.Context, userID int64, a *dialog.Action) {
	text := h.render.Text("confirm.register", nil)
	h.reply(ctx, userID, text,
		h.render.RegistrationConfirmKeyboard(a.EventID, a.ParticipantsCount, a.TeamName, a.Approximate))
}

func (h *MessageHandler) confirmCountChange(ctx context.Context, userID int64, a *dialog.Action) {
	current := 0
	if reg, err := h.events.GetRegistration(ctx, a.EventID, userID); err == nil && reg != nil {
		current = reg.ParticipantsCount
	}
	h.reply(ctx, userID,
		h.render.Text("confirm.change", map[string]any{
			"Current": current,
			"New":     a.ParticipantsCount,
		}),
		h.render.ChangeConfirmKeyboard(a.EventID, a.ParticipantsCount))
}

func (h *MessageHandler) finishRegistration(ctx context.Context, userID int64, c ConfirmRegisterWithTeamCommand) {
	msg, err := h.regs.Register(ctx, h.locale, c.EventID, userID, c.ParticipantsCount, c.TeamName, c.Approximate)
	h.sendOutcome(ctx, userID, "register", msg, err)
}

func (h *MessageHandler) finishCountChange(ctx context.Context, userID int64, eventID int64, count int) {
	msg, err := h.regs.ChangeParticipantsCount(ctx, h.locale, eventID, userID, count)
	h.sendOutcome(ctx, userID, "change count", msg, err)
}

func (h *MessageHandler) cancelRegistration(ctx context.Context, userID int64, eventID int64) {
	msg, err := h.regs.Cancel(ctx, h.locale, eventID, userID)
	h.sendOutcome(ctx, userID, "cancel registration", msg, err)
}

func (h *MessageHandler) showMyRegistrations(ctx context.Context, userID int64) {
	regs, err := h.events.GetUserRegistrations(ctx, userID)
	if err != nil {
		h.sendError(ctx, userID, "list registrations", err)
		return
	}
	if len(regs) == 0 {
		h.reply(ctx, userID, h.render.RegistrationsList(regs), h.render.MainMenuKeyboard())
		return
	}
	h.reply(ctx, userID, h.render.RegistrationsList(regs), h.render.MyRegistrationsKeyboard(regs))
}

// loadEventWithRegistration loads an event plus the user's registration for
// it, replying with the proper error message itself when either load fails.
func (h *MessageHandler) loadEventWithRegistration(ctx context.Context, userID, eventID int64) (*entities.Event, *entities.Registration, bool) {
	event, err := h.events.GetEventByID(ctx, eventID)
	if err != nil {
		h.sendError(ctx, userID, "find event", err)
		return nil, nil, false
	}
	reg, err := h.events.GetRegistration(ctx, eventID, userID)
	if err != nil {
		h.sendError(ctx, userID, "find registration", err)
		return nil, nil, false
	}
	return event, reg, true
}

// sendOutcome delivers a registration-action result. Business rejections
// come back as (message, domain error) and the message is shown as-is;
// storage failures have no message and fall back to the generic error.
func (h *MessageHandler) sendOutcome(ctx context.Context, userID int64, op, msg string, err error) {
	if err != nil {
		log.Printf("❌ vk: %s for %d: %v", op, userID, err)
	}
	if msg == "" {
		msg = h.render.Text("error.generic", nil)
	}
	h.reply(ctx, userID, msg, h.render.MainMenuKeyboard())
}

func (h *MessageHandler) sendError(ctx context.Context, userID int64, op string, err error) {
	log.Printf("❌ vk: %s for %d: %v", op, userID, err)
	text := h.render.Text("error.generic", nil)
	if errorIsNotFound(err) {
		text = h.render.Text("event.not_found", nil)
	}
	h.reply(ctx, userID, text, h.render.MainMenuKeyboard())
}

func errorIsNotFound(err error) bool {
	return errors.Is(err, domain.ErrEventNotFound) || errors.Is(err, domain.ErrCityNotFound)
}

func (h *MessageHandler) reply(ctx context.Context, userID int64, text string, kb *object.MessagesKeyboard) {
	if err := h.send(ctx, userID, text, kb); err != nil {
		log.Printf("❌ vk: send to %d: %v", userID, err)
	}
}
