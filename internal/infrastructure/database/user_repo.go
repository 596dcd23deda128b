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

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Upsert(ctx context.Context, user *entities.User) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (vk_user_id, first_name, last_name, username, photo_url, phone, email, is_active)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
ON CONFLICT (vk_user_id) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	last_name  = EXCLUDED.last_name,
	username   = EXCLUDED.username,
	photo_url  = EXCLUDED.photo_url,
	phone      = COALESCE(EXCLUDED.phone, users.phone),
	email      = COALESCE(EXCLUDED.email, users.email),
	is_active  = EXCLUDED.is_active,
	updated_at = now()
RETURNING id, created_at, updated_at`,
		user.VKUserID, user.FirstName, user.LastName, user.ScreenName,
		user.PhotoURL, user.Phone, user.Email, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

const userColumns = `id, vk_user_id, first_name, last_name, username, photo_url, phone, email, is_active, created_at, updated_at`

func scanUser(row rowScanner) (entities.User, error) {
	var (
		u                                                  entities.User
		firstName, lastName, username, photo, phone, email pgtype.Text
	)
	err := row.Scan(
		&u.ID, &u.VKUserID, &firstName, &lastName, &username,
		&photo, &phone, &email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return entities.User{}, err
	}
	u.FirstName = textOrEmpty(firstName)
	u.LastName = textOrEmpty(lastName)
	u.ScreenName = textOrEmpty(username)
	u.PhotoURL = textOrEmpty(photo)
	u.Phone = textOrEmpty(phone)
	u.Email = textOrEmpty(email)
	return u, nil
}

func (r *UserRepository) FindByVKID(ctx context.Context, vkUserID int64) (*entities.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE vk_user_id = $1`, vkUserID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by vk id: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]entities.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+` FROM users
WHERE is_active
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) ListByEventID(ctx context.Context, eventID int64) ([]entities.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT u.id, u.vk_user_id, u.first_name, u.last_name, u.username, u.photo_url,
       u.phone, u.email, u.is_active, u.created_at, u.updated_at
FROM users u
JOIN event_registrations r ON r.user_id = u.vk_user_id
WHERE r.event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list users by event: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]entities.User, error) {
	var out []entities.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (total, active int64, err error) {
	err = r.pool.QueryRow(ctx, `
SELECT count(*), count(*) FILTER (WHERE is_active)
FROM users`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, active, nil
}

func (r *UserRepository) Deactivate(ctx context.Context, vkUserID int64) error {
	_, err := r.pool.Exec(ctx, `
UPDATE users SET is_active = false, updated_at = now()
WHERE vk_user_id = $1`, vkUserID)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
