package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id TEXT NOT NULL,
    job_name TEXT NOT NULL,
    template_id TEXT NOT NULL,
    descriptor_path TEXT NOT NULL,
    submitted_at_ms INTEGER NOT NULL,
    frame_start INTEGER NOT NULL,
    frame_end INTEGER NOT NULL,
    chunk_size INTEGER NOT NULL,
    priority INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_batch ON submissions(batch_id);
CREATE INDEX IF NOT EXISTS idx_submissions_ts ON submissions(submitted_at_ms);
`

// Record is one submitted descriptor.
type Record struct {
	ID             int64
	BatchID        string
	JobName        string
	TemplateID     string
	DescriptorPath string
	SubmittedAtMS  int64
	FrameStart     int
	FrameEnd       int
	ChunkSize      int
	Priority       int
	CreatedAt      time.Time
}

// Store manages submission history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if err := applySchema(db, path); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// applySchema runs schema setup under a lock file so two producer processes
// opening the store simultaneously cannot race it.
func applySchema(db *sql.DB, path string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire history lock: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one submitted descriptor to the log.
func (s *Store) Record(ctx context.Context, rec Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (
            batch_id, job_name, template_id, descriptor_path,
            submitted_at_ms, frame_start, frame_end, chunk_size, priority, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BatchID,
		rec.JobName,
		rec.TemplateID,
		rec.DescriptorPath,
		rec.SubmittedAtMS,
		rec.FrameStart,
		rec.FrameEnd,
		rec.ChunkSize,
		rec.Priority,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert submission record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, batch_id, job_name, template_id, descriptor_path,
                submitted_at_ms, frame_start, frame_end, chunk_size, priority, created_at
         FROM submissions ORDER BY submitted_at_ms DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.BatchID, &rec.JobName, &rec.TemplateID, &rec.DescriptorPath,
			&rec.SubmittedAtMS, &rec.FrameStart, &rec.FrameEnd, &rec.ChunkSize, &rec.Priority, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission record: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// Batch returns all records sharing a batch id in submission order.
func (s *Store) Batch(ctx context.Context, batchID string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, batch_id, job_name, template_id, descriptor_path,
                submitted_at_ms, frame_start, frame_end, chunk_size, priority, created_at
         FROM submissions WHERE batch_id = ? ORDER BY submitted_at_ms ASC`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.BatchID, &rec.JobName, &rec.TemplateID, &rec.DescriptorPath,
			&rec.SubmittedAtMS, &rec.FrameStart, &rec.FrameEnd, &rec.ChunkSize, &rec.Priority, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch record: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch: %w", err)
	}
	return out, nil
}
