package capture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound signals a lookup for a payload row that does not exist.
var ErrNotFound = errors.New("capture record not found")

// Store manages payload capture persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Record is one captured payload row.
type Record struct {
	ID          int64
	RunID       string
	Track       int
	Fingerprint string
	Payload     []byte
	CreatedAt   time.Time
}

// Open initializes or connects to the capture database and applies the
// schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure capture directory: %w", err)
		}
	}

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

	const schema = `CREATE TABLE IF NOT EXISTS payloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        track INTEGER NOT NULL,
        fingerprint TEXT NOT NULL,
        payload BLOB NOT NULL,
        created_at TEXT NOT NULL
    )`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file location.
func (s *Store) Path() string {
	return s.path
}

// Append records one rendered payload and returns its row ID.
func (s *Store) Append(ctx context.Context, runID string, track int, fingerprint string, payload []byte) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO payloads (run_id, track, fingerprint, payload, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		runID,
		track,
		fingerprint,
		payload,
		timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert payload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payload row id: %w", err)
	}
	return id, nil
}

// List returns all captured payloads in insertion order.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, track, fingerprint, payload, created_at FROM payloads ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query payloads: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payloads: %w", err)
	}
	return records, nil
}

// Get returns one captured payload by row ID.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, run_id, track, fingerprint, payload, created_at FROM payloads WHERE id = ?`,
		id,
	)
	record, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &record, nil
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var record Record
	var createdAt string
	if err := scan(&record.ID, &record.RunID, &record.Track, &record.Fingerprint, &record.Payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan payload row: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		record.CreatedAt = parsed
	}
	return record, nil
}
