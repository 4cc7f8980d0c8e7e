package evidence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		run_number TEXT NOT NULL,
		gps TEXT,
		storage_key TEXT NOT NULL,
		reference TEXT NOT NULL,
		content_type TEXT,
		size_bytes INTEGER NOT NULL,
		submitted_at_utc TEXT NOT NULL
	)
`

// SQLiteIndex is the default report index, backed by a local SQLite file.
type SQLiteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex opens (or creates) the database file and ensures the schema.
func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create reports table: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// Record inserts one report row.
func (s *SQLiteIndex) Record(ctx context.Context, r Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, run_number, gps, storage_key, reference, content_type, size_bytes, submitted_at_utc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.RunNumber, r.GPS, r.StorageKey, r.Reference, r.ContentType, r.SizeBytes,
		r.SubmittedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Recent returns the newest reports, most recent first.
func (s *SQLiteIndex) Recent(ctx context.Context, limit int) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_number, gps, storage_key, reference, content_type, size_bytes, submitted_at_utc
		 FROM reports
		 ORDER BY submitted_at_utc DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var id, submittedAt string
		if err := rows.Scan(&id, &r.RunNumber, &r.GPS, &r.StorageKey, &r.Reference,
			&r.ContentType, &r.SizeBytes, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse report id %q: %w", id, err)
		}
		if r.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt); err != nil {
			return nil, fmt.Errorf("failed to parse report timestamp %q: %w", submittedAt, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}
	return reports, nil
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
