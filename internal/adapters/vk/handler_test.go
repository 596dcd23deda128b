package vk

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/SevereCloud/vksdk/v2/events"
	"github.com/SevereCloud/vksdk/v2/object"

	"vkeventsbot/internal/dialog"
	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
)

type fakeTr struct{}

func (fakeTr) T(locale, key string, data map[string]any) string { return key }
func (fakeTr) TN(locale, key string, n int, data map[string]any) string {
	return fmt.Sprintf("%s:%d", key, n)
}

type sentMessage struct {
	userID int64
	text   string
	kb     *object.MessagesKeyboard
}

type fakeEventUC struct {
	cities []entities.City
	event  *entities.Event
	reg    *entities.Registration
	regs   []entities.Registration
}

func (f *fakeEventUC) ListCities(ctx context.Context) ([]entities.City, error) {
	return f.cities, nil
}

func (f *fakeEventUC) GetCityByID(ctx context.Context, id int64) (*entities.City, error) {
	for i := range f.cities {
		if f.cities[i].ID == id {
			return &f.cities[i], nil
		}
	}
	return nil, domain.ErrCityNotFound
}

func (f *fakeEventUC) ListUpcoming(ctx context.Context) ([]entities.Event, error) {
	if f.event == nil {
		return nil, nil
	}
	return []entities.Event{*f.event}, nil
}

func (f *fakeEventUC) ListUpcomingByCity(ctx context.Context, cityID int64) ([]entities.Event, error) {
	return f.ListUpcoming(ctx)
}

func (f *fakeEventUC) GetEventByID(ctx context.Context, id int64) (*entities.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, domain.ErrEventNotFound
	}
	return f.event, nil
}

func (f *fakeEventUC) GetUserRegistrations(ctx context.Context, userID int64) ([]entities.Registration, error) {
	return f.regs, nil
}

func (f *fakeEventUC) GetRegistration(ctx context.Context, eventID, userID int64) (*entities.Registration, error) {
	return f.reg, nil
}

type registerCall struct {
	eventID     int64
	userID      int64
	count       int
	teamName    string
	approximate bool
}

type fakeRegUC struct {
	registers []registerCall
	changes   []registerCall
	cancels   []registerCall
}

func (f *fakeRegUC) Register(ctx context.Context, locale string, eventID, userID int64, count int, teamName string, approximate bool) (string, error) {
	f.registers = append(f.registers, registerCall{eventID, userID, count, teamName, approximate})
	return "registration.success", nil
}

func (f *fakeRegUC) ChangeParticipantsCount(ctx context.Context, locale string, eventID, userID int64, newCount int) (string, error) {
	f.changes = append(f.changes, registerCall{eventID: eventID, userID: userID, count: newCount})
	return "registration.count_changed", nil
}

func (f *fakeRegUC) Cancel(ctx context.Context, locale string, eventID, userID int64) (string, error) {
	f.cancels = append(f.cancels, registerCall{eventID: eventID, userID: userID})
	return "registration.cancelled", nil
}

type fakeUserUC struct {
	saved []entities.User
}

func (f *fakeUserUC) SaveProfile(ctx context.Context, user *entities.User) error {
	f.saved = append(f.saved, *user)
	return nil
}

func (f *fakeUserUC) GetByVKID(ctx context.Context, vkUserID int64) (*entities.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserUC) ListActive(ctx context.Context) ([]entities.User, error) { return nil, nil }

func (f *fakeUserUC) Stats(ctx context.Context) (domain.UserStats, error) {
	return domain.UserStats{}, nil
}

type handlerFixture struct {
	handler *MessageHandler
	store   *dialog.Store
	events  *fakeEventUC
	regs    *fakeRegUC
	sent    *[]sentMessage
}

func newHandlerFixture(eventUC *fakeEventUC) handlerFixture {
	sent := &[]sentMessage{}
	send := func(ctx context.Context, userID int64, text string, kb *object.MessagesKeyboard) error {
		*sent = append(*sent, sentMessage{userID: userID, text: text, kb: kb})
		return nil
	}
	store := dialog.NewStore()
	regUC := &fakeRegUC{}
	h := NewMessageHandler(
		eventUC, regUC, &fakeUserUC{},
		store, NewRenderer(fakeTr{}, "ru"), "ru",
		send, nil,
	)
	return handlerFixture{handler: h, store: store, events: eventUC, regs: regUC, sent: sent}
}

func newMessage(userID int, text, payload string) events.MessageNewObject {
	return events.MessageNewObject{
		Message: object.MessagesMessage{
			FromID:  userID,
			Text:    text,
			Payload: payload,
		},
	}
}

func (f handlerFixture) lastSent(t *testing.T) sentMessage {
	t.Helper()
	if len(*f.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return (*f.sent)[len(*f.sent)-1]
}

func quizEvent() *entities.Event {
	return &entities.Event{ID: 7, Title: "Quiz Night", MaxParticipants: 50, MaxParticipantsPerTeam: 12, IsActive: true}
}

func TestHandleUnknownTextShowsMainMenu(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{})

	f.handler.HandleMessage(context.Background(), newMessage(100, "что-то непонятное", ""))

	if got := f.lastSent(t); got.text != "main_menu" || got.userID != 100 {
		t.Fatalf("expected the main menu for user 100, got %+v", got)
	}
}

func TestHandleRegisterCommandStartsCountDialog(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{event: quizEvent()})

	f.handler.HandleMessage(context.Background(), newMessage(100, "", `{"command":"register","eventId":7}`))

	if got := f.lastSent(t); got.text != "count.prompt" {
		t.Fatalf("expected the count prompt, got %q", got.text)
	}
	st, ok := f.store.Get(100)
	if !ok || st.Step != dialog.StepSelectingParticipants || st.EventID != 7 {
		t.Fatalf("expected count-selection state for event 7, got (%+v, %v)", st, ok)
	}
	if st.PerTeamMax != 12 {
		t.Fatalf("expected per-team max 12, got %d", st.PerTeamMax)
	}
}

func TestHandleRegisterWhenAlreadyRegistered(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{
		event: quizEvent(),
		reg:   &entities.Registration{EventID: 7, UserID: 100, ParticipantsCount: 2},
	})

	f.handler.HandleMessage(context.Background(), newMessage(100, "", `{"command":"register","eventId":7}`))

	if got := f.lastSent(t); got.text != "registration.already_registered" {
		t.Fatalf("expected the already-registered message, got %q", got.text)
	}
	if _, ok := f.store.Get(100); ok {
		t.Fatal("no dialogue state must be created")
	}
}

func TestHandleTextDialogFullRegistrationFlow(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{event: quizEvent()})
	ctx := context.Background()

	f.handler.HandleMessage(ctx, newMessage(100, "", `{"command":"register","eventId":7}`))

	// Invalid count loops on the same prompt and keeps the state.
	f.handler.HandleMessage(ctx, newMessage(100, "сорок", ""))
	if got := f.lastSent(t); got.text != "count.invalid" {
		t.Fatalf("expected the invalid-count message, got %q", got.text)
	}
	if st, ok := f.store.Get(100); !ok || st.Step != dialog.StepSelectingParticipants {
		t.Fatalf("state must be preserved after bad input, got (%+v, %v)", st, ok)
	}

	f.handler.HandleMessage(ctx, newMessage(100, "5", ""))
	if got := f.lastSent(t); got.text != "team.prompt" {
		t.Fatalf("expected the team name prompt, got %q", got.text)
	}

	f.handler.HandleMessage(ctx, newMessage(100, strings.Repeat("я", 51), ""))
	if got := f.lastSent(t); got.text != "team.too_long" {
		t.Fatalf("expected the too-long message, got %q", got.text)
	}

	f.handler.HandleMessage(ctx, newMessage(100, "Знатоки", ""))
	if got := f.lastSent(t); got.text != "confirm.register" {
		t.Fatalf("expected the confirmation prompt, got %q", got.text)
	}
	if _, ok := f.store.Get(100); ok {
		t.Fatal("state must be cleared before the confirmation step")
	}
	if len(f.regs.registers) != 0 {
		t.Fatal("nothing must be written before the confirm button")
	}

	// The confirm button carries the collected registration.
	f.handler.HandleMessage(ctx, newMessage(100, "",
		`{"command":"confirm_register_with_team","eventId":7,"participantsCount":5,"teamName":"Знатоки"}`))
	if len(f.regs.registers) != 1 {
		t.Fatalf("expected one register call, got %d", len(f.regs.registers))
	}
	call := f.regs.registers[0]
	want := registerCall{eventID: 7, userID: 100, count: 5, teamName: "Знатоки"}
	if call != want {
		t.Fatalf("register call = %+v, want %+v", call, want)
	}
	if got := f.lastSent(t); got.text != "registration.success" {
		t.Fatalf("expected the success message, got %q", got.text)
	}
}

func TestHandleButtonPressAbandonsPendingDialog(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{event: quizEvent()})
	ctx := context.Background()

	f.handler.HandleMessage(ctx, newMessage(100, "", `{"command":"register","eventId":7}`))
	if _, ok := f.store.Get(100); !ok {
		t.Fatal("expected dialogue state after the register button")
	}

	f.handler.HandleMessage(ctx, newMessage(100, "", `{"command":"main_menu"}`))
	if _, ok := f.store.Get(100); ok {
		t.Fatal("a button press must abandon the pending prompt")
	}
}

func TestHandleCancelRegistration(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{event: quizEvent()})

	f.handler.HandleMessage(context.Background(), newMessage(100, "", `{"command":"cancel_registration","eventId":7}`))

	if len(f.regs.cancels) != 1 || f.regs.cancels[0].eventID != 7 {
		t.Fatalf("expected one cancel call for event 7, got %+v", f.regs.cancels)
	}
	if got := f.lastSent(t); got.text != "registration.cancelled" {
		t.Fatalf("expected the cancelled message, got %q", got.text)
	}
}

func TestHandleEventNotFound(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{})

	f.handler.HandleMessage(context.Background(), newMessage(100, "", `{"command":"event_details","eventId":99}`))

	if got := f.lastSent(t); got.text != "event.not_found" {
		t.Fatalf("expected the not-found message, got %q", got.text)
	}
}

func TestHandleChangeCountDirectButton(t *testing.T) {
	f := newHandlerFixture(&fakeEventUC{event: quizEvent()})

	f.handler.HandleMessage(context.Background(), newMessage(100, "",
		`{"command":"confirm_change_participants","eventId":7,"participantsCount":4}`))

	if len(f.regs.changes) != 1 {
		t.Fatalf("expected one change call, got %d", len(f.regs.changes))
	}
	if f.regs.changes[0].count != 4 {
		t.Fatalf("expected new count 4, got %d", f.regs.changes[0].count)
	}
}
