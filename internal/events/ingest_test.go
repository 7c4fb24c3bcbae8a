package events

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/models"
	"github.com/dorianjanezic/major-news/internal/store"
)

// fakeStore is an in-memory EventStore for pipeline tests.
type fakeStore struct {
	events    []models.MarketEvent
	nextID    int64
	findErr   error
	insertErr error
	countErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) FindByIdentity(ctx context.Context, event, date string) (*models.MarketEvent, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i := range f.events {
		if f.events[i].Event == event && f.events[i].Date == date {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertBatch(ctx context.Context, batch []models.MarketEvent) ([]models.MarketEvent, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	inserted := make([]models.MarketEvent, 0, len(batch))
	for _, e := range batch {
		for _, existing := range f.events {
			if existing.Event == e.Event && existing.Date == e.Date {
				return nil, fmt.Errorf("unique constraint violation on (%s, %s)", e.Event, e.Date)
			}
		}
		e.ID = f.nextID
		f.nextID++
		f.events = append(f.events, e)
		inserted = append(inserted, e)
	}
	return inserted, nil
}

func (f *fakeStore) CountByWeek(ctx context.Context, weekStart string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, e := range f.events {
		if e.WeekStart == weekStart {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) List(ctx context.Context, filter store.ListFilter) ([]models.MarketEvent, error) {
	var out []models.MarketEvent
	for _, e := range f.events {
		if filter.WeekStart != "" && e.WeekStart != filter.WeekStart {
			continue
		}
		if filter.Type != "" && string(e.Type) != filter.Type {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.MarketEvent, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (f *fakeStore) Update(ctx context.Context, event *models.MarketEvent) error {
	for i := range f.events {
		if f.events[i].ID == event.ID {
			f.events[i] = *event
			return nil
		}
	}
	return apperrors.ErrEventNotFound
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEventNotFound
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

func candidate(event, date, description string) models.CandidateEvent {
	return models.CandidateEvent{
		Date:            date,
		Event:           event,
		Type:            models.TypeEconomic,
		Description:     description,
		Significance:    models.SignificanceHigh,
		MarketSentiment: models.SentimentMixed,
	}
}

func TestIngest_InsertsNewEvents(t *testing.T) {
	st := newFakeStore()
	ing := NewIngestor(st, zerolog.Nop())

	created, skipped, err := ing.Ingest(context.Background(), "2025-12-01", []models.CandidateEvent{
		candidate("CPI Release", "December 2 2025", "inflation print"),
		candidate("FOMC Minutes", "December 3 2025", "fed minutes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 || skipped != 0 {
		t.Fatalf("expected 2 created / 0 skipped, got %d / %d", len(created), skipped)
	}
	for _, e := range created {
		if e.ID == 0 {
			t.Error("created event missing store-assigned id")
		}
		if e.WeekStart != "2025-12-01" {
			t.Errorf("created event missing week start, got %q", e.WeekStart)
		}
	}
}

func TestIngest_SkipsExistingEvents(t *testing.T) {
	st := newFakeStore()
	ing := NewIngestor(st, zerolog.Nop())
	ctx := context.Background()

	batch := []models.CandidateEvent{candidate("CPI Release", "December 2 2025", "d")}
	if _, _, err := ing.Ingest(ctx, "2025-12-01", batch); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	created, skipped, err := ing.Ingest(ctx, "2025-12-01", batch)
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if len(created) != 0 || skipped != 1 {
		t.Fatalf("expected 0 created / 1 skipped, got %d / %d", len(created), skipped)
	}
	if len(st.events) != 1 {
		t.Fatalf("store should hold exactly one record, has %d", len(st.events))
	}
}

func TestIngest_FirstSeenWinsWithinBatch(t *testing.T) {
	st := newFakeStore()
	ing := NewIngestor(st, zerolog.Nop())

	created, skipped, err := ing.Ingest(context.Background(), "2025-12-01", []models.CandidateEvent{
		candidate("CPI Release", "December 2 2025", "first description"),
		candidate("CPI Release", "December 2 2025", "second description"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || skipped != 1 {
		t.Fatalf("expected 1 created / 1 skipped, got %d / %d", len(created), skipped)
	}
	if created[0].Description != "first description" {
		t.Errorf("first occurrence should win, got %q", created[0].Description)
	}
}

func TestIngest_FailsOpenOnCheckError(t *testing.T) {
	st := newFakeStore()
	st.findErr = errors.New("store unavailable")
	ing := NewIngestor(st, zerolog.Nop())

	created, skipped, err := ing.Ingest(context.Background(), "2025-12-01", []models.CandidateEvent{
		candidate("CPI Release", "December 2 2025", "d"),
	})
	if err != nil {
		t.Fatalf("check error must not abort the batch: %v", err)
	}
	if len(created) != 1 || skipped != 0 {
		t.Fatalf("expected fail-open insert, got %d created / %d skipped", len(created), skipped)
	}
}

func TestIngest_InsertFailureReturnsIngestError(t *testing.T) {
	st := newFakeStore()
	st.insertErr = errors.New("disk full")
	ing := NewIngestor(st, zerolog.Nop())

	created, _, err := ing.Ingest(context.Background(), "2025-12-01", []models.CandidateEvent{
		candidate("CPI Release", "December 2 2025", "d"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var ie *apperrors.IngestError
	if !apperrors.As(err, &ie) {
		t.Fatalf("expected *IngestError, got %T: %v", err, err)
	}
	if len(created) != 0 {
		t.Error("nothing may be reported created on insert failure")
	}
	if len(st.events) != 0 {
		t.Error("nothing may be committed on insert failure")
	}
}

func TestIngest_EmptyBatchIsNoop(t *testing.T) {
	st := newFakeStore()
	ing := NewIngestor(st, zerolog.Nop())

	created, skipped, err := ing.Ingest(context.Background(), "2025-12-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || skipped != 0 {
		t.Fatalf("expected noop, got %d / %d", len(created), skipped)
	}
}
