package services

import (
	"context"
	"errors"
	"time"

	"pedalgo/internal/models"
	"pedalgo/internal/repositories"

	"github.com/google/uuid"
)

type RideService interface {
	Schedule(ctx context.Context, userID uuid.UUID, lat, lon float64, dateTime time.Time) (*models.ScheduledRide, error)
	Cancel(ctx context.Context, userID, rideID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ScheduledRide, error)
}

type rideService struct {
	rideRepo repositories.ScheduledRideRepository
}

func NewRideService(rideRepo repositories.ScheduledRideRepository) RideService {
	return &rideService{rideRepo: rideRepo}
}

// Schedule stores the request as supplied. Past dates and overlapping rides
// are accepted; the registry does no validation beyond coordinates at the
// handler edge.
func (s *rideService) Schedule(ctx context.Context, userID uuid.UUID, lat, lon float64, dateTime time.Time) (*models.ScheduledRide, error) {
	ride := &models.ScheduledRide{
		ID:        uuid.New(),
		UserID:    userID,
		Latitude:  lat,
		Longitude: lon,
		DateTime:  dateTime,
	}
	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

func (s *rideService) Cancel(ctx context.Context, userID, rideID uuid.UUID) error {
	if err := s.rideRepo.DeleteOwned(ctx, userID, rideID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidRide
		}
		return err
	}
	return nil
}

func (s *rideService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ScheduledRide, error) {
	return s.rideRepo.ListByUser(ctx, userID)
}
