package vk

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
	"vkeventsbot/pkg/tz"
)

// Renderer turns domain entities into localized message text and keyboards.
type Renderer struct {
	tr      output.T
	locale  string
	printer *message.Printer
}

func NewRenderer(tr output.T, locale string) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Russian
	}
	return &Renderer{tr: tr, locale: locale, printer: message.NewPrinter(tag)}
}

func (r *Renderer) Text(key string, data map[string]any) string {
	return r.tr.T(r.locale, key, data)
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatDate renders an event date in Moscow time, with genitive month
// names for the Russian locale.
func (r *Renderer) FormatDate(t time.Time) string {
	t = t.In(tz.Moscow)
	if strings.HasPrefix(r.locale, "ru") {
		return itoa(t.Day()) + " " + ruMonths[t.Month()-1] + " " + itoa(t.Year()) + ", " + t.Format("15:04")
	}
	return t.Format("January 2, 2006, 15:04")
}

func (r *Renderer) formatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return r.Text("label.price_free", nil)
	}
	return r.Text("label.price", map[string]any{
		"Price": r.printer.Sprintf("%v ₽", number.Decimal(*price)),
	})
}

// EventDetails is the full event card. When reg is non-nil the card also
// shows the user's registration summary.
func (r *Renderer) EventDetails(event *entities.Event, reg *entities.Registration) string {
	var b strings.Builder
	b.WriteString("🎉 " + event.Title + "\n\n")
	b.WriteString(r.Text("label.date", map[string]any{"Date": r.FormatDate(event.EventDate)}) + "\n")
	if event.Location != nil {
		b.WriteString(r.Text("label.location", map[string]any{"Location": event.Location.Name}) + "\n")
		if event.Location.City != nil {
			b.WriteString(r.Text("label.city", map[string]any{"City": event.Location.City.Name}) + "\n")
		}
		if event.Location.MapLink != "" {
			b.WriteString(r.Text("label.map", map[string]any{"Link": event.Location.MapLink}) + "\n")
		}
	}
	if event.Host != "" {
		b.WriteString(r.Text("label.host", map[string]any{"Host": event.Host}) + "\n")
	}
	b.WriteString(r.formatPrice(event.Price) + "\n")
	if event.MaxParticipants > 0 {
		b.WriteString(r.Text("label.max_participants", map[string]any{"Max": event.MaxParticipants}) + "\n")
	}
	if event.Description != "" {
		b.WriteString("\n" + r.Text("label.about", map[string]any{"Description": event.Description}) + "\n")
	}
	if reg != nil {
		b.WriteString("\n" + r.Text("details.registered", nil) + "\n")
		b.WriteString(r.participantsLine(reg) + "\n")
		if reg.TeamName != "" {
			b.WriteString(r.Text("label.team", map[string]any{"Team": reg.TeamName}) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// EventsList is the header plus a numbered short line per event.
func (r *Renderer) EventsList(city *entities.City, events []entities.Event) string {
	if len(events) == 0 {
		return r.Text("events.empty", map[string]any{"City": city.Name})
	}
	var b strings.Builder
	b.WriteString(r.Text("events.header", map[string]any{"City": city.Name}) + "\n")
	for i, e := range events {
		b.WriteString("\n" + itoa(i+1) + ". " + e.Title + "\n")
		b.WriteString("   " + r.Text("label.date", map[string]any{"Date": r.FormatDate(e.EventDate)}) + "\n")
		if e.Location != nil {
			b.WriteString("   " + r.Text("label.location", map[string]any{"Location": e.Location.Name}) + "\n")
		}
	}
	return b.String()
}

func (r *Renderer) RegistrationsList(regs []entities.Registration) string {
	if len(regs) == 0 {
		return r.Text("registrations.empty", nil)
	}
	var b strings.Builder
	b.WriteString(r.Text("registrations.header", nil) + "\n")
	for i, reg := range regs {
		title := "#" + strconv.FormatInt(reg.EventID, 10)
		if reg.Event != nil {
			title = reg.Event.Title
		}
		b.WriteString("\n" + itoa(i+1) + ". " + title + "\n")
		if reg.Event != nil {
			b.WriteString("   " + r.Text("label.date", map[string]any{"Date": r.FormatDate(reg.Event.EventDate)}) + "\n")
		}
		b.WriteString("   " + r.participantsLine(&reg) + "\n")
		if reg.TeamName != "" {
			b.WriteString("   " + r.Text("label.team", map[string]any{"Team": reg.TeamName}) + "\n")
		}
	}
	return b.String()
}

func (r *Renderer) participantsLine(reg *entities.Registration) string {
	key := "label.participants"
	if reg.Approximate {
		key = "label.participants_approximate"
	}
	return r.Text(key, map[string]any{"Count": reg.ParticipantsCount})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
