package services

import (
	"context"
	"time"

	"pedalgo/internal/caching"
	"pedalgo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and cache shared by the service tests.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePhone(ctx context.Context, id uuid.UUID, phone *string) error {
	args := m.Called(ctx, id, phone)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockBikeRepository struct {
	mock.Mock
}

func (m *MockBikeRepository) Create(ctx context.Context, bike *models.Bike) error {
	args := m.Called(ctx, bike)
	return args.Error(0)
}

func (m *MockBikeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bike, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bike), args.Error(1)
}

func (m *MockBikeRepository) ListAvailable(ctx context.Context) ([]*models.Bike, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bike), args.Error(1)
}

func (m *MockBikeRepository) ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Bike, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bike), args.Error(1)
}

func (m *MockBikeRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Start(ctx context.Context, userID, bikeID uuid.UUID) (*models.Rental, error) {
	args := m.Called(ctx, userID, bikeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) End(ctx context.Context, userID, rentalID uuid.UUID, points *int, cost *float64) (*models.RentalSettlement, error) {
	args := m.Called(ctx, userID, rentalID, points, cost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalSettlement), args.Error(1)
}

func (m *MockRentalRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *MockRentalRepository) ListDetailed(ctx context.Context) ([]*models.RentalDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalDetail), args.Error(1)
}

type MockScheduledRideRepository struct {
	mock.Mock
}

func (m *MockScheduledRideRepository) Create(ctx context.Context, ride *models.ScheduledRide) error {
	args := m.Called(ctx, ride)
	return args.Error(0)
}

func (m *MockScheduledRideRepository) DeleteOwned(ctx context.Context, userID, rideID uuid.UUID) error {
	args := m.Called(ctx, userID, rideID)
	return args.Error(0)
}

func (m *MockScheduledRideRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ScheduledRide, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduledRide), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockCacheService) SetUser(ctx context.Context, user *models.User, ttl time.Duration) error {
	args := m.Called(ctx, user, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCacheService) GetReport(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) SetReport(ctx context.Context, data []byte, ttl time.Duration) error {
	args := m.Called(ctx, data, ttl)
	return args.Error(0)
}

func (m *MockCacheService) AddBikeLocation(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	args := m.Called(ctx, id, lat, lon)
	return args.Error(0)
}

func (m *MockCacheService) RemoveBikeLocation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCacheService) SearchBikesNear(ctx context.Context, lat, lon, radiusMeters float64) ([]caching.BikeDistance, error) {
	args := m.Called(ctx, lat, lon, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]caching.BikeDistance), args.Error(1)
}

func (m *MockCacheService) RebuildBikeLocations(ctx context.Context, bikes []*models.Bike) error {
	args := m.Called(ctx, bikes)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
