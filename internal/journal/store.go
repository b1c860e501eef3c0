// Package journal persists per-item outcomes of a run in a SQLite database
// kept inside the output directory, so a long run can be audited after the
// fact without trawling logs. A nil *Store is a valid no-op journal.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    date_text TEXT NOT NULL DEFAULT '',
    location_text TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    category TEXT NOT NULL DEFAULT '',
    output_path TEXT NOT NULL DEFAULT '',
    failure_reason TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
`

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("journal schema version %d, expected %d (delete %s to reset)", version, schemaVersion, s.path)
	}

	return tx.Commit()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Add inserts a pending item and returns it.
func (s *Store) Add(ctx context.Context, url, dateText, locationText string) (*Item, error) {
	if s == nil {
		return nil, nil
	}
	timestamp := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (url, date_text, location_text, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		url, dateText, locationText, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one item.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	if s == nil {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, date_text, location_text, status, category, output_path, failure_reason, created_at, updated_at
         FROM items WHERE id = ?`, id)
	var item Item
	err := row.Scan(&item.ID, &item.URL, &item.DateText, &item.LocationText, &item.Status,
		&item.Category, &item.OutputPath, &item.FailureReason, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

// SetStatus records a lifecycle transition.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ?`,
		status, now(), id)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// SetOutput records the classification and written file for an item.
func (s *Store) SetOutput(ctx context.Context, id int64, category, outputPath string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET category = ?, output_path = ?, updated_at = ? WHERE id = ?`,
		category, outputPath, now(), id)
	if err != nil {
		return fmt.Errorf("set output: %w", err)
	}
	return nil
}

// MarkCompleted moves an item to its terminal success state.
func (s *Store) MarkCompleted(ctx context.Context, id int64) error {
	return s.SetStatus(ctx, id, StatusCompleted)
}

// MarkFailed moves an item to its terminal failure state with a reason.
func (s *Store) MarkFailed(ctx context.Context, id int64, reason string) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET status = ?, failure_reason = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, reason, now(), id)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// Summarize counts item outcomes.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	if s == nil {
		return Summary{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM items GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusCompleted:
			summary.Completed += count
		case StatusFailed:
			summary.Failed += count
		default:
			summary.Pending += count
		}
	}
	return summary, rows.Err()
}

// Failures returns failed items in insertion order.
func (s *Store) Failures(ctx context.Context) ([]Item, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, date_text, location_text, status, category, output_path, failure_reason, created_at, updated_at
         FROM items WHERE status = ? ORDER BY id`, StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.URL, &item.DateText, &item.LocationText, &item.Status,
			&item.Category, &item.OutputPath, &item.FailureReason, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failure row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
