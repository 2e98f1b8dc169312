package repositories

import (
	"context"
	"fmt"

	"pedalgo/internal/models"

	"github.com/google/uuid"
)

type ScheduledRideRepository interface {
	Create(ctx context.Context, ride *models.ScheduledRide) error
	// DeleteOwned removes a ride only when it belongs to userID. A missing
	// ride and a foreign ride both report ErrNotFound.
	DeleteOwned(ctx context.Context, userID, rideID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ScheduledRide, error)
}

type scheduledRideRepo struct {
	db Database
}

func NewScheduledRideRepo(db Database) ScheduledRideRepository {
	return &scheduledRideRepo{db: db}
}

func (r *scheduledRideRepo) Create(ctx context.Context, ride *models.ScheduledRide) error {
	query := `
		INSERT INTO scheduled_rides (id, user_id, latitude, longitude, date_time, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, ride.ID, ride.UserID, ride.Latitude, ride.Longitude, ride.DateTime)
	if err != nil {
		return fmt.Errorf("failed to create scheduled ride: %w", err)
	}
	return nil
}

func (r *scheduledRideRepo) DeleteOwned(ctx context.Context, userID, rideID uuid.UUID) error {
	query := `DELETE FROM scheduled_rides WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, rideID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *scheduledRideRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ScheduledRide, error) {
	query := `
		SELECT id, user_id, latitude, longitude, date_time, created_at
		FROM scheduled_rides
		WHERE user_id = $1
		ORDER BY date_time
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*models.ScheduledRide
	for rows.Next() {
		ride := &models.ScheduledRide{}
		if err := rows.Scan(&ride.ID, &ride.UserID, &ride.Latitude, &ride.Longitude, &ride.DateTime, &ride.CreatedAt); err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}
