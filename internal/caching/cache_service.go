package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pedalgo/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BikeDistance is a GEO index hit: a bike id and its distance in meters from
// the search origin.
type BikeDistance struct {
	ID     uuid.UUID
	Meters float64
}

type CacheService interface {
	// Profile caching
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetUser(ctx context.Context, user *models.User, ttl time.Duration) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Usage report caching
	GetReport(ctx context.Context) ([]byte, error)
	SetReport(ctx context.Context, data []byte, ttl time.Duration) error

	// Bike location GEO index (available bikes only)
	AddBikeLocation(ctx context.Context, id uuid.UUID, lat, lon float64) error
	RemoveBikeLocation(ctx context.Context, id uuid.UUID) error
	SearchBikesNear(ctx context.Context, lat, lon, radiusMeters float64) ([]BikeDistance, error)
	RebuildBikeLocations(ctx context.Context, bikes []*models.Bike) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

const bikeLocationsKey = "pedalgo:bike:locations"

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, addr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	key := fmt.Sprintf("pedalgo:user:%s", id.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *redisCacheService) SetUser(ctx context.Context, user *models.User, ttl time.Duration) error {
	key := fmt.Sprintf("pedalgo:user:%s", user.ID.String())
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("pedalgo:user:%s", id.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetReport(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, "pedalgo:report:powerbi").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (r *redisCacheService) SetReport(ctx context.Context, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, "pedalgo:report:powerbi", data, ttl).Err()
}

func (r *redisCacheService) AddBikeLocation(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	return r.client.GeoAdd(ctx, bikeLocationsKey, &redis.GeoLocation{
		Name:      id.String(),
		Latitude:  lat,
		Longitude: lon,
	}).Err()
}

func (r *redisCacheService) RemoveBikeLocation(ctx context.Context, id uuid.UUID) error {
	return r.client.ZRem(ctx, bikeLocationsKey, id.String()).Err()
}

func (r *redisCacheService) SearchBikesNear(ctx context.Context, lat, lon, radiusMeters float64) ([]BikeDistance, error) {
	locations, err := r.client.GeoSearchLocation(ctx, bikeLocationsKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   lat,
			Longitude:  lon,
			Radius:     radiusMeters,
			RadiusUnit: "m",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}

	results := make([]BikeDistance, 0, len(locations))
	for _, loc := range locations {
		id, err := uuid.Parse(loc.Name)
		if err != nil {
			continue // skip foreign entries rather than failing the search
		}
		results = append(results, BikeDistance{ID: id, Meters: loc.Dist})
	}
	return results, nil
}

func (r *redisCacheService) RebuildBikeLocations(ctx context.Context, bikes []*models.Bike) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, bikeLocationsKey)
	for _, bike := range bikes {
		pipe.GeoAdd(ctx, bikeLocationsKey, &redis.GeoLocation{
			Name:      bike.ID.String(),
			Latitude:  bike.Latitude,
			Longitude: bike.Longitude,
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("pedalgo:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
