package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"

	"pedalgo/internal/caching"
	"pedalgo/internal/geo"
	"pedalgo/internal/models"
	"pedalgo/internal/repositories"

	"github.com/google/uuid"
)

// DefaultNearbyRadiusMeters bounds bike discovery. The radius is inclusive:
// a bike at exactly the radius is returned.
const DefaultNearbyRadiusMeters = 1000.0

// geoSearchRadiusPad widens the index lookup so Redis and the haversine
// re-check cannot disagree about a bike sitting exactly at the radius.
const geoSearchRadiusPad = 1.01

type FleetService interface {
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]*models.NearbyBike, error)
	SeedDemoFleet(ctx context.Context) error
	RebuildLocationIndex(ctx context.Context) error
}

type fleetService struct {
	bikeRepo repositories.BikeRepository
	cacheSvc caching.CacheService
}

func NewFleetService(bikeRepo repositories.BikeRepository, cacheSvc caching.CacheService) FleetService {
	return &fleetService{
		bikeRepo: bikeRepo,
		cacheSvc: cacheSvc,
	}
}

// FindNearby returns available bikes within radiusMeters of the caller, each
// annotated with its rounded distance. The GEO index narrows candidates when
// it is populated; every candidate is re-read from the store so a stale index
// can never surface an unavailable bike. Distances are always recomputed from
// the stored coordinates so results do not depend on which path served them.
func (s *fleetService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]*models.NearbyBike, error) {
	var bikes []*models.Bike

	// The index search radius is padded so a bike sitting exactly at the
	// boundary is never excluded by Redis' distance calculation; the haversine
	// filter below trims the overshoot.
	hits, err := s.cacheSvc.SearchBikesNear(ctx, lat, lon, radiusMeters*geoSearchRadiusPad)
	if err == nil && len(hits) > 0 {
		ids := make([]uuid.UUID, 0, len(hits))
		for _, hit := range hits {
			ids = append(ids, hit.ID)
		}
		bikes, err = s.bikeRepo.ListAvailableByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	} else {
		if err != nil {
			log.Printf("WARN: bike location index unavailable, scanning fleet: %v", err)
		}
		bikes, err = s.bikeRepo.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}
	}

	nearby := make([]*models.NearbyBike, 0, len(bikes))
	for _, bike := range bikes {
		distance := geo.Distance(lat, lon, bike.Latitude, bike.Longitude)
		if distance <= radiusMeters {
			nearby = append(nearby, &models.NearbyBike{
				ID:        bike.ID,
				Name:      bike.Name,
				Type:      bike.Type,
				Latitude:  bike.Latitude,
				Longitude: bike.Longitude,
				Distance:  int(math.Round(distance)),
			})
		}
	}
	return nearby, nil
}

// RebuildLocationIndex replaces the GEO index with the current set of
// available bikes. Run at startup and periodically to heal drift.
func (s *fleetService) RebuildLocationIndex(ctx context.Context) error {
	bikes, err := s.bikeRepo.ListAvailable(ctx)
	if err != nil {
		return err
	}
	return s.cacheSvc.RebuildBikeLocations(ctx, bikes)
}

// SeedDemoFleet creates ten bikes scattered around central São Paulo when the
// bikes table is empty.
func (s *fleetService) SeedDemoFleet(ctx context.Context) error {
	count, err := s.bikeRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	types := []string{models.BikeTypeMountain, models.BikeTypeCity, models.BikeTypeElectric}
	for i := 0; i < 10; i++ {
		bike := &models.Bike{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("Bike %d", i+1),
			Type:      types[i%3],
			Latitude:  -23.5505 + (rand.Float64()-0.5)*0.02,
			Longitude: -46.6333 + (rand.Float64()-0.5)*0.02,
			Available: true,
		}
		if err := s.bikeRepo.Create(ctx, bike); err != nil {
			return err
		}
	}
	log.Printf("Seeded demo fleet with 10 bikes")
	return nil
}
