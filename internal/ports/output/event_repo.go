package output

import (
	"context"

	"vkeventsbot/internal/domain/entities"
)

type EventRepository interface {
	// FindByID returns domain.ErrEventNotFound when the event does not exist.
	FindByID(ctx context.Context, id int64) (*entities.Event, error)
	// ListUpcoming returns active events with a future date, soonest first.
	ListUpcoming(ctx context.Context) ([]entities.Event, error)
	ListUpcomingByCity(ctx context.Context, cityID int64) ([]entities.Event, error)
}

type CityRepository interface {
	List(ctx context.Context) ([]entities.City, error)
	// FindByID returns domain.ErrCityNotFound when the city does not exist.
	FindByID(ctx context.Context, id int64) (*entities.City, error)
}
