package repositories

import (
	"context"
	"errors"
	"fmt"

	"pedalgo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BikeRepository interface {
	Create(ctx context.Context, bike *models.Bike) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bike, error)
	ListAvailable(ctx context.Context) ([]*models.Bike, error)
	ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Bike, error)
	Count(ctx context.Context) (int, error)
}

type bikeRepo struct {
	db Database
}

func NewBikeRepo(db Database) BikeRepository {
	return &bikeRepo{db: db}
}

func (r *bikeRepo) Create(ctx context.Context, bike *models.Bike) error {
	query := `
		INSERT INTO bikes (id, name, type, latitude, longitude, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, bike.ID, bike.Name, bike.Type, bike.Latitude, bike.Longitude, bike.Available)
	if err != nil {
		return fmt.Errorf("failed to create bike: %w", err)
	}
	return nil
}

func (r *bikeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Bike, error) {
	bike := &models.Bike{}
	query := `
		SELECT id, name, type, latitude, longitude, available, created_at
		FROM bikes
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&bike.ID, &bike.Name, &bike.Type, &bike.Latitude, &bike.Longitude, &bike.Available, &bike.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bike, nil
}

func (r *bikeRepo) ListAvailable(ctx context.Context) ([]*models.Bike, error) {
	query := `
		SELECT id, name, type, latitude, longitude, available, created_at
		FROM bikes
		WHERE available = true
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBikes(rows)
}

func (r *bikeRepo) ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Bike, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, name, type, latitude, longitude, available, created_at
		FROM bikes
		WHERE available = true AND id = ANY($1)
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBikes(rows)
}

func (r *bikeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bikes`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanBikes(rows pgx.Rows) ([]*models.Bike, error) {
	var bikes []*models.Bike
	for rows.Next() {
		bike := &models.Bike{}
		if err := rows.Scan(&bike.ID, &bike.Name, &bike.Type, &bike.Latitude, &bike.Longitude, &bike.Available, &bike.CreatedAt); err != nil {
			return nil, err
		}
		bikes = append(bikes, bike)
	}
	return bikes, rows.Err()
}
