package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// HouseRepository is the secondary adapter for the house document store.
type HouseRepository struct {
	pool *pgxpool.Pool
}

var _ ports.HouseRepository = (*HouseRepository)(nil)

// NewHouseRepository creates a new house repository.
func NewHouseRepository(pool *pgxpool.Pool) *HouseRepository {
	return &HouseRepository{pool: pool}
}

// List returns every house, stable-ordered by name.
func (r *HouseRepository) List(ctx context.Context) ([]domain.House, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, hid, is_test_home
		   FROM houses
		  ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var houses []domain.House
	for rows.Next() {
		var h domain.House
		if err := rows.Scan(&h.ID, &h.Name, &h.HID, &h.IsTestHome); err != nil {
			return nil, err
		}
		houses = append(houses, h)
	}
	return houses, rows.Err()
}

// GetByHID returns the house with the given external id.
func (r *HouseRepository) GetByHID(ctx context.Context, hid string) (*domain.House, error) {
	var h domain.House
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, hid, is_test_home
		   FROM houses
		  WHERE hid = $1`, hid).
		Scan(&h.ID, &h.Name, &h.HID, &h.IsTestHome)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHouseNotFound
		}
		return nil, err
	}
	return &h, nil
}
