package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/resplan/core/baseline"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists baselines in a SQLite database. Tasks are kept as a
// JSON document next to indexed header columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS baselines (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        created_at INTEGER NOT NULL,
        task_count INTEGER NOT NULL,
        body TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS baselines_created_at ON baselines(created_at);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces the baseline.
func (s *SQLiteStore) Save(ctx context.Context, b *baseline.Baseline) error {
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline %s: %w", b.ID(), err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO baselines (id, name, created_at, task_count, body)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            created_at = excluded.created_at,
            task_count = excluded.task_count,
            body = excluded.body`,
		b.ID(), b.Name(), b.CreatedAt().UnixNano(), b.Len(), string(body))
	return err
}

// Get loads the baseline with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*baseline.Baseline, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM baselines WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", baseline.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	b := &baseline.Baseline{}
	if err := json.Unmarshal([]byte(body), b); err != nil {
		return nil, fmt.Errorf("decode baseline %s: %w", id, err)
	}
	return b, nil
}

// List returns baseline headers ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]baseline.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, task_count
        FROM baselines ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []baseline.Summary{}
	for rows.Next() {
		var sum baseline.Summary
		var ts int64
		if err := rows.Scan(&sum.ID, &sum.Name, &ts, &sum.TaskCount); err != nil {
			return nil, err
		}
		sum.CreatedAt = time.Unix(0, ts).UTC()
		res = append(res, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes the baseline with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM baselines WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", baseline.ErrNotFound, id)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
