// Package background runs the periodic maintenance jobs: usage-report
// refresh and archival, bike location index rebuild, and stale-rental
// alerting.
package background

import (
	"context"
	"log"
	"sync"
	"time"

	"pedalgo/internal/analytics"
	"pedalgo/internal/repositories"
	"pedalgo/internal/services"
	"pedalgo/internal/storage"

	"github.com/go-co-op/gocron/v2"
)

// Rentals still open after this long are flagged in the logs.
const staleRentalAge = 24 * time.Hour

// JobScheduler manages the background jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.AnalyticsService
	fleetSvc     services.FleetService
	rentalRepo   repositories.RentalRepository
	archive      storage.ReportArchive
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers all jobs. archive may
// be nil when object storage is not configured; archival is skipped then.
func NewJobScheduler(analyticsSvc *analytics.AnalyticsService, fleetSvc services.FleetService,
	rentalRepo repositories.RentalRepository, archive storage.ReportArchive) (*JobScheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		fleetSvc:     fleetSvc,
		rentalRepo:   rentalRepo,
		archive:      archive,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler.
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler.
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.addJob("report-refresh", 5*time.Minute, js.refreshReport)
	js.addJob("report-archive", 1*time.Hour, js.archiveReport)
	js.addJob("bike-index-rebuild", 10*time.Minute, js.rebuildBikeIndex)
	js.addJob("stale-rental-alert", 30*time.Minute, js.alertStaleRentals)

	js.mu.RLock()
	defer js.mu.RUnlock()
	log.Printf("Registered %d background jobs", len(js.jobs))
}

func (js *JobScheduler) addJob(name string, interval time.Duration, task func(context.Context)) {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task, context.Background()),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create %s job: %v", name, err)
		return
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
}

func (js *JobScheduler) refreshReport(ctx context.Context) {
	if _, err := js.analyticsSvc.RefreshReport(ctx); err != nil {
		log.Printf("Report refresh failed: %v", err)
	}
}

func (js *JobScheduler) archiveReport(ctx context.Context) {
	if js.archive == nil {
		return
	}
	data, err := js.analyticsSvc.Report(ctx)
	if err != nil {
		log.Printf("Report archival skipped, build failed: %v", err)
		return
	}
	object, err := js.archive.UploadSnapshot(ctx, data, time.Now())
	if err != nil {
		log.Printf("Report archival failed: %v", err)
		return
	}
	log.Printf("Archived usage report snapshot %s", object)
}

func (js *JobScheduler) rebuildBikeIndex(ctx context.Context) {
	if err := js.fleetSvc.RebuildLocationIndex(ctx); err != nil {
		log.Printf("Bike location index rebuild failed: %v", err)
	}
}

func (js *JobScheduler) alertStaleRentals(ctx context.Context) {
	rentals, err := js.rentalRepo.ListDetailed(ctx)
	if err != nil {
		log.Printf("Stale rental scan failed: %v", err)
		return
	}

	cutoff := time.Now().Add(-staleRentalAge)
	for _, rental := range rentals {
		if rental.EndTime == nil && rental.StartTime.Before(cutoff) {
			log.Printf("ALERT: rental %s by %s open since %s (bike type %s)",
				rental.ID, rental.UserName, rental.StartTime.Format(time.RFC3339), rental.BikeType)
		}
	}
}
