package services

import (
	"context"
	"errors"
	"log"

	"pedalgo/internal/caching"
	"pedalgo/internal/geo"
	"pedalgo/internal/models"
	"pedalgo/internal/repositories"

	"github.com/google/uuid"
)

// MaxStartDistanceMeters is the rental-start proximity threshold. A rider
// strictly farther than this from the bike cannot start the rental; exactly
// at the threshold is allowed.
const MaxStartDistanceMeters = 100.0

// StartRentalResult is returned when a rental opens.
type StartRentalResult struct {
	RentalID     uuid.UUID `json:"rental_id"`
	BikeType     string    `json:"bike_type"`
	PointsEarned int       `json:"points_earned"`
}

type RentalService interface {
	Start(ctx context.Context, userID, bikeID uuid.UUID, userLat, userLon float64) (*StartRentalResult, error)
	End(ctx context.Context, userID, rentalID uuid.UUID, points *int, cost *float64) (*models.RentalSettlement, error)
}

type rentalService struct {
	rentalRepo repositories.RentalRepository
	bikeRepo   repositories.BikeRepository
	cacheSvc   caching.CacheService
}

func NewRentalService(rentalRepo repositories.RentalRepository, bikeRepo repositories.BikeRepository, cacheSvc caching.CacheService) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		bikeRepo:   bikeRepo,
		cacheSvc:   cacheSvc,
	}
}

// Start checks, in order: the bike exists, it is available, the rider has no
// open rental, and the rider is close enough. The repository transaction then
// re-validates availability and the active-rental invariant under a row lock,
// so two concurrent starts on the same bike cannot both succeed.
func (s *rentalService) Start(ctx context.Context, userID, bikeID uuid.UUID, userLat, userLon float64) (*StartRentalResult, error) {
	bike, err := s.bikeRepo.GetByID(ctx, bikeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, err
	}
	if !bike.Available {
		return nil, ErrBikeUnavailable
	}

	if _, err := s.rentalRepo.GetActiveByUser(ctx, userID); err == nil {
		return nil, ErrActiveRental
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if geo.Distance(userLat, userLon, bike.Latitude, bike.Longitude) > MaxStartDistanceMeters {
		return nil, ErrTooFarFromBike
	}

	rental, err := s.rentalRepo.Start(ctx, userID, bikeID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrBikeNotFound
		case errors.Is(err, repositories.ErrBikeUnavailable):
			return nil, ErrBikeUnavailable
		case errors.Is(err, repositories.ErrActiveRentalExists):
			return nil, ErrActiveRental
		}
		return nil, err
	}

	// The bike is rented now; drop it from the discovery index. The periodic
	// rebuild heals any miss here.
	if err := s.cacheSvc.RemoveBikeLocation(ctx, bikeID); err != nil {
		log.Printf("WARN: failed to drop bike %s from location index: %v", bikeID, err)
	}

	return &StartRentalResult{
		RentalID:     rental.ID,
		BikeType:     bike.Type,
		PointsEarned: rental.Points,
	}, nil
}

// End closes the rental, settles points and cost, and releases the bike.
func (s *rentalService) End(ctx context.Context, userID, rentalID uuid.UUID, points *int, cost *float64) (*models.RentalSettlement, error) {
	settlement, err := s.rentalRepo.End(ctx, userID, rentalID, points, cost)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrInvalidRental
		case errors.Is(err, repositories.ErrRentalEnded):
			return nil, ErrRentalEnded
		}
		return nil, err
	}

	if bike, err := s.bikeRepo.GetByID(ctx, settlement.BikeID); err == nil {
		if err := s.cacheSvc.AddBikeLocation(ctx, bike.ID, bike.Latitude, bike.Longitude); err != nil {
			log.Printf("WARN: failed to re-add bike %s to location index: %v", bike.ID, err)
		}
	}

	// The rider's balance changed; drop the cached profile.
	if err := s.cacheSvc.DeleteUser(ctx, userID); err != nil {
		log.Printf("WARN: profile cache invalidation failed for %s: %v", userID, err)
	}

	return settlement, nil
}
