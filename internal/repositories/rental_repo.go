package repositories

import (
	"context"
	"errors"
	"fmt"

	"pedalgo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RentalRepository interface {
	// Start opens a rental inside one transaction: it locks the bike row,
	// re-checks availability and the one-active-rental invariant, inserts the
	// rental and flips the bike to unavailable. No partial state escapes.
	Start(ctx context.Context, userID, bikeID uuid.UUID) (*models.Rental, error)

	// End closes a rental inside one transaction: it locks the rental row,
	// stamps the end time, settles points and cost, releases the bike and
	// credits the rider's balance.
	End(ctx context.Context, userID, rentalID uuid.UUID, points *int, cost *float64) (*models.RentalSettlement, error)

	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Rental, error)
	ListDetailed(ctx context.Context) ([]*models.RentalDetail, error)
}

type rentalRepo struct {
	db Database
}

func NewRentalRepo(db Database) RentalRepository {
	return &rentalRepo{db: db}
}

func (r *rentalRepo) Start(ctx context.Context, userID, bikeID uuid.UUID) (*models.Rental, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var available bool
	err = tx.QueryRow(ctx, `SELECT available FROM bikes WHERE id = $1 FOR UPDATE`, bikeID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !available {
		return nil, ErrBikeUnavailable
	}

	var hasActive bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rentals WHERE user_id = $1 AND end_time IS NULL)`, userID).Scan(&hasActive)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, ErrActiveRentalExists
	}

	rental := &models.Rental{
		ID:     uuid.New(),
		UserID: userID,
		BikeID: bikeID,
		Points: models.DefaultRentalPoints,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO rentals (id, user_id, bike_id, start_time, points)
		VALUES ($1, $2, $3, NOW(), $4)
		RETURNING start_time
	`, rental.ID, rental.UserID, rental.BikeID, rental.Points).Scan(&rental.StartTime)
	if err != nil {
		// The partial unique index on (user_id) WHERE end_time IS NULL closes
		// the race two concurrent starts would otherwise win together.
		if uniqueViolation(err) {
			return nil, ErrActiveRentalExists
		}
		return nil, err
	}

	tag, err := tx.Exec(ctx, `UPDATE bikes SET available = false WHERE id = $1 AND available = true`, bikeID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrBikeUnavailable
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rental start: %w", err)
	}
	return rental, nil
}

func (r *rentalRepo) End(ctx context.Context, userID, rentalID uuid.UUID, points *int, cost *float64) (*models.RentalSettlement, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		bikeID        uuid.UUID
		endTime       *string
		defaultPoints int
	)
	// Ownership is part of the predicate so a foreign rental is
	// indistinguishable from a missing one.
	err = tx.QueryRow(ctx, `
		SELECT bike_id, end_time::text, points
		FROM rentals
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, rentalID, userID).Scan(&bikeID, &endTime, &defaultPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if endTime != nil {
		return nil, ErrRentalEnded
	}

	earned := defaultPoints
	if points != nil {
		earned = *points
	}
	finalCost := 0.0
	if cost != nil {
		finalCost = *cost
	}

	_, err = tx.Exec(ctx, `
		UPDATE rentals SET end_time = NOW(), points = $1, cost = $2 WHERE id = $3
	`, earned, finalCost, rentalID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `UPDATE bikes SET available = true WHERE id = $1`, bikeID)
	if err != nil {
		return nil, err
	}

	var totalPoints int
	err = tx.QueryRow(ctx, `
		UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2 RETURNING points
	`, earned, userID).Scan(&totalPoints)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rental end: %w", err)
	}

	return &models.RentalSettlement{
		RentalID:     rentalID,
		BikeID:       bikeID,
		PointsEarned: earned,
		Cost:         finalCost,
		TotalPoints:  totalPoints,
	}, nil
}

func (r *rentalRepo) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Rental, error) {
	rental := &models.Rental{}
	query := `
		SELECT id, user_id, bike_id, start_time, end_time, points, cost
		FROM rentals
		WHERE user_id = $1 AND end_time IS NULL
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&rental.ID, &rental.UserID, &rental.BikeID, &rental.StartTime, &rental.EndTime, &rental.Points, &rental.Cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rental, nil
}

func (r *rentalRepo) ListDetailed(ctx context.Context) ([]*models.RentalDetail, error) {
	query := `
		SELECT r.id, r.user_id, r.bike_id, r.start_time, r.end_time, r.points, r.cost,
		       u.name, b.type
		FROM rentals r
		JOIN users u ON u.id = r.user_id
		JOIN bikes b ON b.id = r.bike_id
		ORDER BY r.start_time
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*models.RentalDetail
	for rows.Next() {
		d := &models.RentalDetail{}
		if err := rows.Scan(&d.ID, &d.UserID, &d.BikeID, &d.StartTime, &d.EndTime, &d.Points, &d.Cost, &d.UserName, &d.BikeType); err != nil {
			return nil, err
		}
		rentals = append(rentals, d)
	}
	return rentals, rows.Err()
}
