package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dorianjanezic/major-news/internal/models"
)

// Property: any event written through InsertBatch comes back intact through
// FindByIdentity, including citation order.
func TestProperty_SQLiteRoundTrip(t *testing.T) {
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "prop.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer st.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	seq := 0
	genEvent := gopter.CombineGens(
		gen.OneConstOf(models.CanonicalEventTypes[0], models.CanonicalEventTypes[1],
			models.CanonicalEventTypes[2], models.CanonicalEventTypes[3],
			models.CanonicalEventTypes[4], models.CanonicalEventTypes[5],
			models.CanonicalEventTypes[6]),
		gen.OneConstOf(models.SignificanceHigh, models.SignificanceMedium, models.SignificanceLow),
		gen.OneConstOf(models.SentimentBullish, models.SentimentBearish, models.SentimentNeutral, models.SentimentMixed),
		gen.SliceOf(gen.OneConstOf("https://a.example.com", "https://b.example.com/x", "https://c.example.com/y?z=1")),
	).Map(func(values []interface{}) models.MarketEvent {
		seq++
		return models.MarketEvent{
			// Sequence number keeps identities unique across iterations.
			Date:            fmt.Sprintf("December %d 2025", seq),
			Event:           fmt.Sprintf("Event %d", seq),
			Type:            values[0].(models.EventType),
			Description:     "generated description",
			Significance:    values[1].(models.Significance),
			MarketSentiment: values[2].(models.MarketSentiment),
			Citations:       values[3].([]string),
			WeekStart:       "2025-12-01",
		}
	})

	properties.Property("insert then find returns equal fields", prop.ForAll(
		func(e models.MarketEvent) bool {
			ctx := context.Background()
			created, err := st.InsertBatch(ctx, []models.MarketEvent{e})
			if err != nil || len(created) != 1 {
				return false
			}
			found, err := st.FindByIdentity(ctx, e.Event, e.Date)
			if err != nil || found == nil {
				return false
			}
			if found.Event != e.Event || found.Date != e.Date ||
				found.Type != e.Type || found.Description != e.Description ||
				found.Significance != e.Significance ||
				found.MarketSentiment != e.MarketSentiment {
				return false
			}
			if len(found.Citations) != len(e.Citations) {
				return false
			}
			for i := range e.Citations {
				if found.Citations[i] != e.Citations[i] {
					return false
				}
			}
			return true
		},
		genEvent,
	))

	properties.TestingRun(t)
}
