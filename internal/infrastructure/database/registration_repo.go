package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

var _ output.RegistrationRepository = (*RegistrationRepository)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// code serves plain calls and the event-locked transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// registrationStore implements output.RegistrationStore against a querier.
type registrationStore struct {
	q querier
}

// RegistrationRepository is the pool-backed store plus the event-scoped
// transaction entry point.
type RegistrationRepository struct {
	registrationStore
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		registrationStore: registrationStore{q: pool},
		pool:              pool,
	}
}

// WithEventLock wraps fn in a transaction holding pg_advisory_xact_lock
// keyed by event id. Concurrent register/change calls for the same event
// queue up here, which makes the sum-check-write sequence atomic per event;
// calls for different events do not block each other.
func (r *RegistrationRepository) WithEventLock(ctx context.Context, eventID int64, fn func(output.RegistrationStore) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, eventID); err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}
		return fn(&registrationStore{q: tx})
	})
}

func (s *registrationStore) Find(ctx context.Context, eventID, userID int64) (*entities.Registration, error) {
	var (
		reg      entities.Registration
		teamName pgtype.Text
	)
	err := s.q.QueryRow(ctx, `
SELECT id, event_id, user_id, participants_count, team_name, approximately, registered_at
FROM event_registrations
WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.ParticipantsCount,
		&teamName, &reg.Approximate, &reg.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	reg.TeamName = textOrEmpty(teamName)
	return &reg, nil
}

func (s *registrationStore) FindByUserID(ctx context.Context, userID int64) ([]entities.Registration, error) {
	rows, err := s.q.Query(ctx, `
SELECT r.id, r.event_id, r.user_id, r.participants_count, r.team_name, r.approximately, r.registered_at,
       `+eventColumns+`
FROM event_registrations r
JOIN events e ON e.id = r.event_id
LEFT JOIN locations l ON l.id = e.location_id
LEFT JOIN cities c ON c.id = l.city_id
WHERE r.user_id = $1
ORDER BY r.registered_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations by user: %w", err)
	}
	defer rows.Close()

	var out []entities.Registration
	for rows.Next() {
		reg, err := scanRegistrationWithEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

func (s *registrationStore) SumParticipants(ctx context.Context, eventID int64) (int, error) {
	var sum int64
	err := s.q.QueryRow(ctx, `
SELECT COALESCE(SUM(participants_count), 0)
FROM event_registrations
WHERE event_id = $1`, eventID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum participants: %w", err)
	}
	return int(sum), nil
}

func (s *registrationStore) Create(ctx context.Context, reg *entities.Registration) error {
	err := s.q.QueryRow(ctx, `
INSERT INTO event_registrations (event_id, user_id, participants_count, team_name, approximately, registered_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
RETURNING id`,
		reg.EventID, reg.UserID, reg.ParticipantsCount, reg.TeamName, reg.Approximate, reg.RegisteredAt,
	).Scan(&reg.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *registrationStore) UpdateCount(ctx context.Context, eventID, userID int64, count int) error {
	_, err := s.q.Exec(ctx, `
UPDATE event_registrations
SET participants_count = $3
WHERE event_id = $1 AND user_id = $2`, eventID, userID, count)
	if err != nil {
		return fmt.Errorf("update registration count: %w", err)
	}
	return nil
}

func (s *registrationStore) Delete(ctx context.Context, eventID, userID int64) error {
	_, err := s.q.Exec(ctx, `
DELETE FROM event_registrations
WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationStore) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM event_registrations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

// eventColumns mirrors the column list of eventSelect for joined queries.
const eventColumns = `e.id, e.title, e.description, e.event_date, e.host, e.price,
       e.max_participants, e.max_participants_per_team, e.is_active,
       e.created_at, e.updated_at,
       l.id, l.name, l.map_link, l.city_id,
       c.name`

func scanRegistrationWithEvent(row rowScanner) (entities.Registration, error) {
	var (
		reg               entities.Registration
		teamName          pgtype.Text
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
		&reg.ID, &reg.EventID, &reg.UserID, &reg.ParticipantsCount,
		&teamName, &reg.Approximate, &reg.RegisteredAt,
		&e.ID, &e.Title, &description, &e.EventDate, &host, &price,
		&maxParticipants, &maxPerTeam, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt,
		&locID, &locName, &mapLink, &cityID,
		&cityName,
	)
	if err != nil {
		return entities.Registration{}, err
	}
	reg.TeamName = textOrEmpty(teamName)
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
	reg.Event = &e
	return reg, nil
}
