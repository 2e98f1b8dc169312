package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRentalPoints is awarded when the caller supplies no override at end time.
const DefaultRentalPoints = 10

// Rental is one rental of a bike by a user. A rental with a nil EndTime is
// active; at most one active rental may exist per user.
type Rental struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	BikeID    uuid.UUID  `json:"bike_id" db:"bike_id"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time" db:"end_time"`
	Points    int        `json:"points" db:"points"`
	Cost      *float64   `json:"cost" db:"cost"`
}

// Active reports whether the rental is still open.
func (r *Rental) Active() bool {
	return r.EndTime == nil
}

// RentalSettlement is the outcome of closing a rental.
type RentalSettlement struct {
	RentalID     uuid.UUID `json:"rental_id"`
	BikeID       uuid.UUID `json:"bike_id"`
	PointsEarned int       `json:"points_earned"`
	Cost         float64   `json:"cost"`
	TotalPoints  int       `json:"total_points"`
}

// RentalDetail is a rental joined with its rider and bike, as consumed by the
// usage report.
type RentalDetail struct {
	Rental
	UserName string `json:"user_name"`
	BikeType string `json:"bike_type"`
}
