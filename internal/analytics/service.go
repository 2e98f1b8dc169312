// Package analytics builds the fleet usage report consumed by the BI export
// endpoint.
package analytics

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sort"
	"time"

	"pedalgo/internal/caching"
	"pedalgo/internal/repositories"

	"github.com/google/uuid"
)

// Distance on a closed rental is estimated from its duration at this average
// riding speed.
const averageSpeedKmh = 15.0

const reportCacheTTL = 5 * time.Minute

// UsageReport is the full export payload.
type UsageReport struct {
	Users           []UserSummary   `json:"users"`
	Rentals         []RentalRecord  `json:"rentals"`
	BikeUsage       []UserBikeUsage `json:"bike_usage"`
	BikeTypeSummary []BikeTypeUsage `json:"bike_type_summary"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

type UserSummary struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Points int       `json:"points"`
}

type RentalRecord struct {
	RentalID            uuid.UUID  `json:"rental_id"`
	UserID              uuid.UUID  `json:"user_id"`
	UserName            string     `json:"user_name"`
	BikeID              uuid.UUID  `json:"bike_id"`
	BikeType            string     `json:"bike_type"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	DurationMinutes     *int       `json:"duration_minutes"`
	EstimatedDistanceKm *float64   `json:"estimated_distance_km"`
	PointsEarned        int        `json:"points_earned"`
	Cost                *float64   `json:"cost"`
}

type UserBikeUsage struct {
	UserID            uuid.UUID      `json:"user_id"`
	UserName          string         `json:"user_name"`
	TotalBikesUsed    int            `json:"total_bikes_used"`
	FavoriteBikeType  string         `json:"favorite_bike_type"`
	BikeTypeBreakdown map[string]int `json:"bike_type_breakdown"`
}

type BikeTypeUsage struct {
	BikeType   string  `json:"bike_type"`
	TotalUsage int     `json:"total_usage"`
	Percentage float64 `json:"percentage"`
}

// AnalyticsService computes and caches the usage report.
type AnalyticsService struct {
	userRepo   repositories.UserRepository
	rentalRepo repositories.RentalRepository
	cacheSvc   caching.CacheService
}

func NewAnalyticsService(userRepo repositories.UserRepository, rentalRepo repositories.RentalRepository, cacheSvc caching.CacheService) *AnalyticsService {
	return &AnalyticsService{
		userRepo:   userRepo,
		rentalRepo: rentalRepo,
		cacheSvc:   cacheSvc,
	}
}

// Report returns the serialized usage report, from cache when fresh.
func (a *AnalyticsService) Report(ctx context.Context) ([]byte, error) {
	if cached, err := a.cacheSvc.GetReport(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: report cache read failed: %v", err)
	}
	return a.RefreshReport(ctx)
}

// RefreshReport rebuilds the report from the store and refreshes the cache.
func (a *AnalyticsService) RefreshReport(ctx context.Context) ([]byte, error) {
	report, err := a.BuildReport(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	if err := a.cacheSvc.SetReport(ctx, data, reportCacheTTL); err != nil {
		log.Printf("WARN: report cache write failed: %v", err)
	}
	return data, nil
}

// BuildReport aggregates users and rentals into the export payload.
func (a *AnalyticsService) BuildReport(ctx context.Context) (*UsageReport, error) {
	users, err := a.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	rentals, err := a.rentalRepo.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{
		Users:           make([]UserSummary, 0, len(users)),
		Rentals:         make([]RentalRecord, 0, len(rentals)),
		BikeUsage:       []UserBikeUsage{},
		BikeTypeSummary: []BikeTypeUsage{},
		GeneratedAt:     time.Now().UTC(),
	}

	for _, user := range users {
		report.Users = append(report.Users, UserSummary{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Points: user.Points,
		})
	}

	// Every user appears in the usage summary, zero-rental users included.
	perUserCounts := make(map[uuid.UUID]int)
	perUserTypes := make(map[uuid.UUID]map[string]int)
	perUserNames := make(map[uuid.UUID]string)
	typeTotals := make(map[string]int)
	userOrder := make([]uuid.UUID, 0, len(users))
	for _, user := range users {
		userOrder = append(userOrder, user.ID)
		perUserTypes[user.ID] = make(map[string]int)
		perUserNames[user.ID] = user.Name
	}

	for _, rental := range rentals {
		record := RentalRecord{
			RentalID:     rental.ID,
			UserID:       rental.UserID,
			UserName:     rental.UserName,
			BikeID:       rental.BikeID,
			BikeType:     rental.BikeType,
			StartTime:    rental.StartTime,
			EndTime:      rental.EndTime,
			PointsEarned: rental.Points,
			Cost:         rental.Cost,
		}
		if rental.EndTime != nil {
			minutes := int(math.Round(rental.EndTime.Sub(rental.StartTime).Minutes()))
			km := math.Round((float64(minutes)/60.0)*averageSpeedKmh*100) / 100
			record.DurationMinutes = &minutes
			record.EstimatedDistanceKm = &km
		}
		report.Rentals = append(report.Rentals, record)

		if _, seen := perUserTypes[rental.UserID]; !seen {
			userOrder = append(userOrder, rental.UserID)
			perUserTypes[rental.UserID] = make(map[string]int)
		}
		perUserCounts[rental.UserID]++
		perUserTypes[rental.UserID][rental.BikeType]++
		perUserNames[rental.UserID] = rental.UserName
		typeTotals[rental.BikeType]++
	}

	for _, userID := range userOrder {
		report.BikeUsage = append(report.BikeUsage, UserBikeUsage{
			UserID:            userID,
			UserName:          perUserNames[userID],
			TotalBikesUsed:    perUserCounts[userID],
			FavoriteBikeType:  favoriteType(perUserTypes[userID]),
			BikeTypeBreakdown: perUserTypes[userID],
		})
	}

	total := len(rentals)
	for bikeType, count := range typeTotals {
		report.BikeTypeSummary = append(report.BikeTypeSummary, BikeTypeUsage{
			BikeType:   bikeType,
			TotalUsage: count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}
	sort.Slice(report.BikeTypeSummary, func(i, j int) bool {
		return report.BikeTypeSummary[i].BikeType < report.BikeTypeSummary[j].BikeType
	})

	return report, nil
}

// favoriteType picks the most used bike type, alphabetical on ties so report
// runs are deterministic.
func favoriteType(counts map[string]int) string {
	favorite := ""
	max := 0
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		if counts[t] > max {
			max = counts[t]
			favorite = t
		}
	}
	return favorite
}
