package store

import (
	"context"
	"path/filepath"
	"testing"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testEvent(event, date string) models.MarketEvent {
	return models.MarketEvent{
		Date:            date,
		Event:           event,
		Type:            models.TypeEconomic,
		Description:     "description",
		Significance:    models.SignificanceHigh,
		MarketSentiment: models.SentimentMixed,
		WeekStart:       "2025-12-01",
	}
}

func TestSQLiteStore_InsertAndFindByIdentity(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	e := testEvent("CPI Release", "December 2 2025")
	e.Citations = []string{"https://example.com/a", "https://example.com/b"}

	created, err := st.InsertBatch(ctx, []models.MarketEvent{e})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("expected one created event with id, got %+v", created)
	}
	if created[0].CreatedAt.IsZero() || created[0].UpdatedAt.IsZero() {
		t.Error("timestamps not assigned on insert")
	}

	found, err := st.FindByIdentity(ctx, "CPI Release", "December 2 2025")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected event, got nil")
	}
	if found.ID != created[0].ID {
		t.Errorf("id mismatch: %d vs %d", found.ID, created[0].ID)
	}
	// Citation order is preserved, not sorted or deduplicated.
	if len(found.Citations) != 2 ||
		found.Citations[0] != "https://example.com/a" ||
		found.Citations[1] != "https://example.com/b" {
		t.Errorf("citations not preserved: %v", found.Citations)
	}
}

func TestSQLiteStore_FindByIdentityMissing(t *testing.T) {
	st := newTestStore(t)

	found, err := st.FindByIdentity(context.Background(), "Nothing", "December 2 2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for missing identity, got %+v", found)
	}
}

func TestSQLiteStore_UniqueConstraintBackstop(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertBatch(ctx, []models.MarketEvent{testEvent("CPI Release", "December 2 2025")}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	dup := testEvent("CPI Release", "December 2 2025")
	dup.Description = "different description"
	if _, err := st.InsertBatch(ctx, []models.MarketEvent{dup}); err == nil {
		t.Fatal("expected unique constraint violation")
	}

	count, err := st.CountByWeek(ctx, "2025-12-01")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one persisted record, got %d", count)
	}
}

func TestSQLiteStore_BatchInsertIsAtomic(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertBatch(ctx, []models.MarketEvent{testEvent("Existing", "December 1 2025")}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	// Second element collides; the whole batch must roll back.
	batch := []models.MarketEvent{
		testEvent("Fresh", "December 3 2025"),
		testEvent("Existing", "December 1 2025"),
	}
	if _, err := st.InsertBatch(ctx, batch); err == nil {
		t.Fatal("expected batch failure")
	}

	found, err := st.FindByIdentity(ctx, "Fresh", "December 3 2025")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found != nil {
		t.Error("partial commit detected: first batch element was persisted")
	}
}

func TestSQLiteStore_CountByWeek(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testEvent("A", "December 2 2025")
	b := testEvent("B", "December 3 2025")
	c := testEvent("C", "December 9 2025")
	c.WeekStart = "2025-12-08"

	if _, err := st.InsertBatch(ctx, []models.MarketEvent{a, b, c}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	count, err := st.CountByWeek(ctx, "2025-12-01")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events for week, got %d", count)
	}
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	fed := testEvent("FOMC Meeting", "December 3 2025")
	fed.Type = models.TypeFed
	other := testEvent("CPI Release", "December 2 2025")

	if _, err := st.InsertBatch(ctx, []models.MarketEvent{fed, other}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	list, err := st.List(ctx, ListFilter{Type: string(models.TypeFed)})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].Event != "FOMC Meeting" {
		t.Errorf("type filter failed: %+v", list)
	}

	list, err = st.List(ctx, ListFilter{WeekStart: "2025-12-01"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("week filter failed, got %d events", len(list))
	}

	list, err = st.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("limit not applied, got %d events", len(list))
	}
}

func TestSQLiteStore_UpdateAndDelete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.InsertBatch(ctx, []models.MarketEvent{testEvent("CPI Release", "December 2 2025")})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	e := created[0]

	e.Significance = models.SignificanceLow
	if err := st.Update(ctx, &e); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := st.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Significance != models.SignificanceLow {
		t.Errorf("update not persisted, significance %q", got.Significance)
	}

	if err := st.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.GetByID(ctx, e.ID); !apperrors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound after delete, got %v", err)
	}
	if err := st.Delete(ctx, e.ID); !apperrors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound on double delete, got %v", err)
	}
}

func TestSQLiteStore_UpdateMissingEvent(t *testing.T) {
	st := newTestStore(t)

	e := testEvent("Ghost", "December 2 2025")
	e.ID = 42
	if err := st.Update(context.Background(), &e); !apperrors.Is(err, apperrors.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}
