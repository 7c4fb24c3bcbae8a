package events

import (
	"context"

	"github.com/rs/zerolog"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/models"
	"github.com/dorianjanezic/major-news/internal/store"
)

// Ingestor persists candidate events, skipping any whose (event, date)
// identity already exists.
type Ingestor struct {
	store  store.EventStore
	logger zerolog.Logger
}

// NewIngestor creates a new deduplicating ingestor.
func NewIngestor(st store.EventStore, logger zerolog.Logger) *Ingestor {
	return &Ingestor{store: st, logger: logger}
}

// identity is the semantic key deciding duplicate-ness, independent of any
// store-assigned ID.
type identity struct {
	event string
	date  string
}

// Ingest classifies each candidate against current store state (checked at
// insert time, not pipeline-start time) and inserts the misses as a single
// batch. Within one batch the first occurrence of an identity wins; later
// duplicates are skipped.
//
// A failed existence check is treated as "not found" and logged, rather than
// aborting the batch: the store's uniqueness constraint is the backstop. A
// failed batch insert surfaces as *errors.IngestError with nothing
// committed.
func (i *Ingestor) Ingest(ctx context.Context, weekStart string, candidates []models.CandidateEvent) ([]models.MarketEvent, int, error) {
	staged := make([]models.MarketEvent, 0, len(candidates))
	seen := make(map[identity]bool, len(candidates))
	skipped := 0

	for _, c := range candidates {
		key := identity{event: c.Event, date: c.Date}
		if seen[key] {
			skipped++
			continue
		}

		existing, err := i.store.FindByIdentity(ctx, c.Event, c.Date)
		if err != nil {
			i.logger.Warn().Err(err).
				Str("event", c.Event).
				Str("date", c.Date).
				Msg("Duplicate check failed, staging for insert anyway")
		}
		if existing != nil {
			skipped++
			continue
		}

		seen[key] = true
		staged = append(staged, models.MarketEvent{
			Date:            c.Date,
			Event:           c.Event,
			Type:            c.Type,
			Description:     c.Description,
			Significance:    c.Significance,
			MarketSentiment: c.MarketSentiment,
			Citations:       c.Citations,
			WeekStart:       weekStart,
		})
	}

	if len(staged) == 0 {
		return nil, skipped, nil
	}

	created, err := i.store.InsertBatch(ctx, staged)
	if err != nil {
		return nil, 0, apperrors.NewIngestError("batch insert", err)
	}
	return created, skipped, nil
}
