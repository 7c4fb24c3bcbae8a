package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
	"github.com/dorianjanezic/major-news/internal/models"
)

// SQLiteStore implements EventStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based event store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the events table and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS market_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		event TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		significance TEXT NOT NULL,
		market_sentiment TEXT NOT NULL,
		citations TEXT,
		week_start TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(event, date)
	);

	CREATE INDEX IF NOT EXISTS idx_market_events_week ON market_events(week_start);
	CREATE INDEX IF NOT EXISTS idx_market_events_type ON market_events(type);
	`
	_, err := s.db.Exec(schema)
	return err
}

const eventColumns = `id, date, event, type, description, significance, market_sentiment, citations, week_start, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.MarketEvent, error) {
	var e models.MarketEvent
	var citations sql.NullString
	var weekStart sql.NullString
	if err := row.Scan(&e.ID, &e.Date, &e.Event, &e.Type, &e.Description,
		&e.Significance, &e.MarketSentiment, &citations, &weekStart,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if citations.Valid && citations.String != "" {
		if err := json.Unmarshal([]byte(citations.String), &e.Citations); err != nil {
			return nil, fmt.Errorf("decoding citations for event %d: %w", e.ID, err)
		}
	}
	if weekStart.Valid {
		e.WeekStart = weekStart.String
	}
	return &e, nil
}

func encodeCitations(citations []string) (interface{}, error) {
	if len(citations) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(citations)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// FindByIdentity returns the event with the given (event, date) pair, or nil
// when none exists.
func (s *SQLiteStore) FindByIdentity(ctx context.Context, event, date string) (*models.MarketEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM market_events WHERE event = ? AND date = ?`,
		event, date)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// InsertBatch inserts all events inside one transaction. Either every event
// is committed or none is.
func (s *SQLiteStore) InsertBatch(ctx context.Context, events []models.MarketEvent) ([]models.MarketEvent, error) {
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO market_events
			(date, event, type, description, significance, market_sentiment, citations, week_start, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := make([]models.MarketEvent, 0, len(events))
	for _, e := range events {
		citations, err := encodeCitations(e.Citations)
		if err != nil {
			return nil, fmt.Errorf("encoding citations for %q: %w", e.Event, err)
		}
		res, err := stmt.ExecContext(ctx, e.Date, e.Event, e.Type, e.Description,
			e.Significance, e.MarketSentiment, citations, e.WeekStart, now, now)
		if err != nil {
			return nil, fmt.Errorf("inserting %q: %w", e.Event, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading id for %q: %w", e.Event, err)
		}
		e.ID = id
		e.CreatedAt = now
		e.UpdatedAt = now
		inserted = append(inserted, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch insert: %w", err)
	}
	return inserted, nil
}

// CountByWeek returns the number of events stored for a week start key.
func (s *SQLiteStore) CountByWeek(ctx context.Context, weekStart string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM market_events WHERE week_start = ?`, weekStart).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List returns events matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]models.MarketEvent, error) {
	var conditions []string
	var args []interface{}

	if filter.WeekStart != "" {
		conditions = append(conditions, "week_start = ?")
		args = append(args, filter.WeekStart)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}

	query := `SELECT ` + eventColumns + ` FROM market_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.MarketEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns the event with the given ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*models.MarketEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM market_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Update rewrites the mutable fields of an existing event.
func (s *SQLiteStore) Update(ctx context.Context, event *models.MarketEvent) error {
	citations, err := encodeCitations(event.Citations)
	if err != nil {
		return fmt.Errorf("encoding citations: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE market_events
		SET date = ?, event = ?, type = ?, description = ?, significance = ?,
		    market_sentiment = ?, citations = ?, updated_at = ?
		WHERE id = ?`,
		event.Date, event.Event, event.Type, event.Description,
		event.Significance, event.MarketSentiment, citations, now, event.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrEventNotFound
	}
	event.UpdatedAt = now
	return nil
}

// Delete removes the event with the given ID.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM market_events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Ping checks database reachability.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
