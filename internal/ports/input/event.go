package input

import (
	"context"

	"vkeventsbot/internal/domain/entities"
)

type EventUseCase interface {
	ListCities(ctx context.Context) ([]entities.City, error)
	GetCityByID(ctx context.Context, id int64) (*entities.City, error)
	ListUpcoming(ctx context.Context) ([]entities.Event, error)
	ListUpcomingByCity(ctx context.Context, cityID int64) ([]entities.Event, error)
	GetEventByID(ctx context.Context, id int64) (*entities.Event, error)
	GetUserRegistrations(ctx context.Context, userID int64) ([]entities.Registration, error)
	// GetRegistration returns (nil, nil) when the user is not registered.
	GetRegistration(ctx context.Context, eventID, userID int64) (*entities.Registration, error)
}
