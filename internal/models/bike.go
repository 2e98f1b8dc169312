package models

import (
	"time"

	"github.com/google/uuid"
)

// Bike type labels seeded with the demo fleet.
const (
	BikeTypeMountain = "Mountain Bike"
	BikeTypeCity     = "City Bike"
	BikeTypeElectric = "Electric Bike"
)

type Bike struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NearbyBike is a bike annotated with its distance from the caller.
type NearbyBike struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Distance  int       `json:"distance"` // meters, rounded
}
