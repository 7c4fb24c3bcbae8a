package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dorianjanezic/major-news/internal/models"
	"github.com/dorianjanezic/major-news/internal/provider"
	"github.com/dorianjanezic/major-news/internal/store"
)

// Result is the outcome of one pipeline run for a single target week.
type Result struct {
	WeekStart string               `json:"week_start"`
	Generated int                  `json:"generated"` // candidates surviving normalization
	Created   []models.MarketEvent `json:"created"`
	Skipped   int                  `json:"skipped"`
}

// Generator runs the full pipeline for a target week: prompt construction,
// provider invocation, normalization, deduplicated ingestion. Stages compose
// sequentially; any stage error aborts the run.
type Generator struct {
	provider provider.Provider
	ingestor *Ingestor
	logger   zerolog.Logger
	now      func() time.Time
}

// NewGenerator creates a pipeline generator over the given provider and
// store.
func NewGenerator(p provider.Provider, st store.EventStore, logger zerolog.Logger) *Generator {
	return &Generator{
		provider: p,
		ingestor: NewIngestor(st, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// ProviderName returns the name of the configured provider variant.
func (g *Generator) ProviderName() string {
	return g.provider.Name()
}

// GenerateWeek runs one pipeline pass for the week starting at weekStart.
func (g *Generator) GenerateWeek(ctx context.Context, weekStart time.Time) (*Result, error) {
	week := WeekKey(weekStart)
	logger := g.logger.With().
		Str("week_start", week).
		Str("provider", g.provider.Name()).
		Logger()

	prompt := BuildPrompt(weekStart)
	logger.Debug().Int("prompt_len", len(prompt)).Msg("Invoking provider")

	resp, err := g.provider.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	candidates, err := Normalize(resp.Content, resp.Citations)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("candidates", len(candidates)).Msg("Normalized provider output")

	created, skipped, err := g.ingestor.Ingest(ctx, week, candidates)
	if err != nil {
		return nil, err
	}

	result := &Result{
		WeekStart: week,
		Generated: len(candidates),
		Created:   created,
		Skipped:   skipped,
	}
	logger.Info().
		Int("generated", result.Generated).
		Int("created", len(result.Created)).
		Int("skipped", result.Skipped).
		Msg("Pipeline run completed")
	return result, nil
}

// GenerateCurrentWeekEvents runs the pipeline for the week containing now.
// Idempotent across calls: re-running against the same store only grows the
// skipped count.
func (g *Generator) GenerateCurrentWeekEvents(ctx context.Context) (*Result, error) {
	return g.GenerateWeek(ctx, WeekStart(g.now()))
}

// GenerateUpcomingWeekEvents runs the pipeline for the week after the one
// containing now.
func (g *Generator) GenerateUpcomingWeekEvents(ctx context.Context) (*Result, error) {
	return g.GenerateWeek(ctx, UpcomingWeekStart(g.now()))
}
