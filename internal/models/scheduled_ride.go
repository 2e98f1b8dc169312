package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledRide is a future ride request. It is created as supplied and only
// ever removed by its owner.
type ScheduledRide struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	DateTime  time.Time `json:"date_time" db:"date_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
