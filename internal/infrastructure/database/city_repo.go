package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vkeventsbot/internal/domain"
	"vkeventsbot/internal/domain/entities"
	"vkeventsbot/internal/ports/output"
)

var _ output.CityRepository = (*CityRepository)(nil)

type CityRepository struct {
	pool *pgxpool.Pool
}

func NewCityRepository(pool *pgxpool.Pool) *CityRepository {
	return &CityRepository{pool: pool}
}

func (r *CityRepository) List(ctx context.Context) ([]entities.City, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM cities ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []entities.City
	for rows.Next() {
		var c entities.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CityRepository) FindByID(ctx context.Context, id int64) (*entities.City, error) {
	var c entities.City
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM cities WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCityNotFound
		}
		return nil, fmt.Errorf("get city by id: %w", err)
	}
	return &c, nil
}
