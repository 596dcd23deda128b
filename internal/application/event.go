package application

import (
	"context"

	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

type EventService struct {
	events output.EventRepository
	cities output.CityRepository
	regs   output.RegistrationRepository
}

func NewEventService(
	events output.EventRepository,
	cities output.CityRepository,
	regs output.RegistrationRepository,
) *EventService {
	return &EventService{
		events: events,
		cities: cities,
		regs:   regs,
	}
}

func (s *EventService) ListCities(ctx context.Context) ([]entities.City, error) {
	return s.cities.List(ctx)
}

func (s *EventService) GetCityByID(ctx context.Context, id int64) (*entities.City, error) {
	return s.cities.FindByID(ctx, id)
}

func (s *EventService) ListUpcoming(ctx context.Context) ([]entities.Event, error) {
	return s.events.ListUpcoming(ctx)
}

func (s *EventService) ListUpcomingByCity(ctx context.Context, cityID int64) ([]entities.Event, error) {
	return s.events.ListUpcomingByCity(ctx, cityID)
}

func (s *EventService) GetEventByID(ctx context.Context, id int64) (*entities.Event, error) {
	return s.events.FindByID(ctx, id)
}

func (s *EventService) GetUserRegistrations(ctx context.Context, userID int64) ([]entities.Registration, error) {
	return s.regs.FindByUserID(ctx, userID)
}

func (s *EventService) GetRegistration(ctx context.Context, eventID, userID int64) (*entities.Registration, error) {
	return s.regs.Find(ctx, eventID, userID)
}
