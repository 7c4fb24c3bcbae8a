// Package store provides event persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/dorianjanezic/major-news/internal/models"
)

// ListFilter represents filters for querying events.
type ListFilter struct {
	WeekStart string
	Type      string
	Limit     int
	Offset    int
}

// EventStore defines the interface for market event persistence. The store
// enforces uniqueness on the (event, date) semantic identity; the ingestor's
// pre-insert checks are best-effort and this constraint is the backstop.
type EventStore interface {
	// FindByIdentity returns the event with the given (event, date) pair,
	// or nil when none exists.
	FindByIdentity(ctx context.Context, event, date string) (*models.MarketEvent, error)
	// InsertBatch inserts all events in one transaction and returns them
	// with store-assigned IDs and timestamps. On error nothing is committed.
	InsertBatch(ctx context.Context, events []models.MarketEvent) ([]models.MarketEvent, error)
	// CountByWeek returns how many events are stored for the given week
	// start key.
	CountByWeek(ctx context.Context, weekStart string) (int, error)

	// CRUD surface consumed by the HTTP handlers.
	List(ctx context.Context, filter ListFilter) ([]models.MarketEvent, error)
	GetByID(ctx context.Context, id int64) (*models.MarketEvent, error)
	Update(ctx context.Context, event *models.MarketEvent) error
	Delete(ctx context.Context, id int64) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
