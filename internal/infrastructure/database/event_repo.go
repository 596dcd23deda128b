package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventSelect = `
SELECT ` + eventColumns + `
FROM events e
LEFT JOIN locations l ON l.id = e.location_id
LEFT JOIN cities c ON c.id = l.city_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (entities.Event, error) {
	var (
		e                 entities.Event
		description, host pgtype.Text
		price             pgtype.Float8
		maxParticipants   pgtype.Int4
		maxPerTeam        pgtype.Int4
		locID             pgtype.Int8
		locName, mapLink  pgtype.Text
		cityID            pgtype.Int8
		cityName          pgtype.Text
	)
	err := row.Scan(
		&e.ID, &e.Title, &description, &e.EventDate, &host, &price,
		&maxParticipants, &maxPerTeam, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt,
		&locID, &locName, &mapLink, &cityID,
		&cityName,
	)
	if err != nil {
		return entities.Event{}, err
	}
	e.Description = textOrEmpty(description)
	e.Host = textOrEmpty(host)
	e.Price = float8Ptr(price)
	e.MaxParticipants = int4OrZero(maxParticipants)
	e.MaxParticipantsPerTeam = int4OrZero(maxPerTeam)
	if locID.Valid {
		loc := &entities.Location{
			ID:      locID.Int64,
			Name:    textOrEmpty(locName),
			MapLink: textOrEmpty(mapLink),
			CityID:  cityID.Int64,
		}
		if cityName.Valid {
			loc.City = &entities.City{ID: cityID.Int64, Name: cityName.String}
		}
		e.Location = loc
	}
	return e, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*entities.Event, error) {
	row := r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, eventSelect+`
WHERE e.is_active AND e.event_date >= now()
ORDER BY e.event_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *EventRepository) ListUpcomingByCity(ctx context.Context, cityID int64) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, eventSelect+`
WHERE e.is_active AND e.event_date >= now() AND l.city_id = $1
ORDER BY e.event_date ASC`, cityID)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events by city: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	var out []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
