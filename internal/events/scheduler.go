package events

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dorianjanezic/major-news/internal/config"
	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/store"
)

// weekGenerator is the slice of Generator the scheduler drives.
type weekGenerator interface {
	GenerateCurrentWeekEvents(ctx context.Context) (*Result, error)
	GenerateUpcomingWeekEvents(ctx context.Context) (*Result, error)
	ProviderName() string
}

// Scheduler drives the pipeline at two triggers: once at process startup
// (ensure the current week's events exist) and on a recurring cron cadence
// (produce the upcoming week's events).
//
// A single mutex serializes runs across both trigger kinds, so coinciding
// triggers cannot both pass the startup existence check; the store's
// uniqueness constraint remains the backstop. Run errors are logged with the
// target week and provider and never retried; the next trigger fires at its
// normal time.
type Scheduler struct {
	generator    weekGenerator
	store        store.EventStore
	cronSpec     string
	runOnStartup bool
	logger       zerolog.Logger
	cron         *cron.Cron
	runMu        sync.Mutex
	now          func() time.Time
}

// NewScheduler creates a scheduler over the given generator and store.
func NewScheduler(g *Generator, st store.EventStore, cfg config.ScheduleConfig, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		generator:    g,
		store:        st,
		cronSpec:     cfg.WeeklyCron,
		runOnStartup: cfg.RunOnStartup,
		logger:       logger,
		now:          time.Now,
	}
}

// Start registers the weekly cron trigger and fires the startup trigger in
// the background. It returns an error only for an unparseable cron
// expression.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cronSpec, func() {
		s.runWeekly(context.Background())
	}); err != nil {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid,
			"invalid weekly cron expression %q", s.cronSpec)
	}
	s.cron.Start()

	if s.runOnStartup {
		go s.runStartup(ctx)
	}
	return nil
}

// Stop stops the cron scheduler and waits for any in-flight cron job.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// runStartup ensures the current week's events exist. If the store already
// holds at least one record for the week, generation is treated as
// satisfied and the provider is not called.
func (s *Scheduler) runStartup(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	week := WeekKey(WeekStart(s.now()))
	logger := s.logger.With().
		Str("trigger", "startup").
		Str("week_start", week).
		Str("provider", s.generator.ProviderName()).
		Logger()

	count, err := s.store.CountByWeek(ctx, week)
	if err != nil {
		// Fail open: run the pipeline and let the ingestor dedup.
		logger.Warn().Err(err).Msg("Week existence check failed, running pipeline anyway")
	}
	if count > 0 {
		logger.Info().Int("existing", count).Msg("Events already present for current week, skipping generation")
		return
	}

	if _, err := s.generator.GenerateCurrentWeekEvents(ctx); err != nil {
		logger.Error().Err(err).Str("kind", apperrors.Kind(err)).Msg("Startup generation failed")
	}
}

// runWeekly unconditionally generates the upcoming week's events; duplicate
// protection is delegated entirely to the ingestor.
func (s *Scheduler) runWeekly(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	week := WeekKey(UpcomingWeekStart(s.now()))
	logger := s.logger.With().
		Str("trigger", "weekly").
		Str("week_start", week).
		Str("provider", s.generator.ProviderName()).
		Logger()

	if _, err := s.generator.GenerateUpcomingWeekEvents(ctx); err != nil {
		logger.Error().Err(err).Str("kind", apperrors.Kind(err)).Msg("Weekly generation failed")
	}
}
