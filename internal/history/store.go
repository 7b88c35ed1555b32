// Package history persists confirmed workout entries. It is a collaborator of
// the extraction engine: the engine's selected values become an Entry once the
// user accepts them, and the store never feeds back into extraction.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// Entry is one confirmed workout record.
type Entry struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	DistanceKM  float64   `json:"distance_km"`
	DurationSec int       `json:"duration_sec"`
	Pace        string    `json:"pace"` // M:SS per km, derived once at save time
	AvgHR       *int      `json:"avg_hr,omitempty"`
	Calories    *int      `json:"calories,omitempty"`
	Source      string    `json:"source,omitempty"` // pipeline name or "manual"
	CreatedAt   time.Time `json:"created_at"`
}

// ErrIncomplete is returned when a result lacks the required fields for an
// entry.
var ErrIncomplete = errors.New("result is missing distance or duration")

// FromResult builds an Entry from an accepted extraction result. Distance and
// duration are required; pace falls back to the derived value when the engine
// synthesized none.
func FromResult(date string, res *extract.Result, source string) (Entry, error) {
	if res.Values.Distance == nil || res.Values.Duration == nil {
		return Entry{}, ErrIncomplete
	}
	e := Entry{
		ID:          uuid.NewString(),
		Date:        date,
		DistanceKM:  *res.Values.Distance,
		DurationSec: res.Values.Duration.Seconds,
		AvgHR:       res.Values.AvgHR,
		Calories:    res.Values.Calories,
		Source:      source,
	}
	if res.Values.Pace != nil {
		e.Pace = res.Values.Pace.Display
	} else {
		sec := int(float64(e.DurationSec) / e.DistanceKM)
		e.Pace = extract.ClockFromSeconds(sec).Display
	}
	return e, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id           TEXT PRIMARY KEY,
	date         TEXT NOT NULL,
	distance_km  REAL NOT NULL,
	duration_sec INTEGER NOT NULL,
	pace         TEXT NOT NULL,
	avg_hr       INTEGER,
	calories     INTEGER,
	source       TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
`

// Store is a sqlite-backed entry store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path. ":memory:" is valid for
// tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Insert saves one entry. A zero CreatedAt is stamped with the current time.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, date, distance_km, duration_sec, pace, avg_hr, calories, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date, e.DistanceKM, e.DurationSec, e.Pace, e.AvgHR, e.Calories, e.Source,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	slog.Debug("entry saved", "id", e.ID, "date", e.Date, "distance_km", e.DistanceKM)
	return nil
}

// Order is a list sort order.
type Order string

const (
	OrderRecent   Order = "recent"   // newest date first
	OrderDate     Order = "date"     // oldest date first
	OrderDistance Order = "distance" // longest first
	OrderPace     Order = "pace"     // fastest first
)

// List returns entries in the given order.
func (s *Store) List(ctx context.Context, order Order) ([]Entry, error) {
	var clause string
	switch order {
	case OrderDate:
		clause = "date ASC, created_at ASC"
	case OrderDistance:
		clause = "distance_km DESC"
	case OrderPace:
		clause = "CAST(duration_sec AS REAL) / distance_km ASC"
	default:
		clause = "date DESC, created_at DESC"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, distance_km, duration_sec, pace, avg_hr, calories, source, created_at
		 FROM entries ORDER BY `+clause)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Date, &e.DistanceKM, &e.DurationSec, &e.Pace,
			&e.AvgHR, &e.Calories, &e.Source, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes one entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s not found", id)
	}
	return nil
}
