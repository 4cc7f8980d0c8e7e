package evidence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		run_number TEXT NOT NULL,
		gps TEXT,
		storage_key TEXT NOT NULL,
		reference TEXT NOT NULL,
		content_type TEXT,
		size_bytes BIGINT NOT NULL,
		submitted_at_utc TIMESTAMPTZ NOT NULL
	)
`

// PostgresIndex is a report index backed by Postgres, for deployments where
// the evidence log must outlive the service host.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

// NewPostgresIndex connects to the database and ensures the schema.
func NewPostgresIndex(ctx context.Context, databaseURL string) (*PostgresIndex, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create reports table: %w", err)
	}

	return &PostgresIndex{pool: pool}, nil
}

// Record inserts one report row.
func (p *PostgresIndex) Record(ctx context.Context, r Report) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO reports (id, run_number, gps, storage_key, reference, content_type, size_bytes, submitted_at_utc)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID.String(), r.RunNumber, r.GPS, r.StorageKey, r.Reference, r.ContentType, r.SizeBytes,
		r.SubmittedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Recent returns the newest reports, most recent first.
func (p *PostgresIndex) Recent(ctx context.Context, limit int) ([]Report, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, run_number, gps, storage_key, reference, content_type, size_bytes, submitted_at_utc
		 FROM reports
		 ORDER BY submitted_at_utc DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var id string
		var submittedAt time.Time
		if err := rows.Scan(&id, &r.RunNumber, &r.GPS, &r.StorageKey, &r.Reference,
			&r.ContentType, &r.SizeBytes, &submittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse report id %q: %w", id, err)
		}
		r.SubmittedAt = submittedAt.UTC()
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}
	return reports, nil
}

// Close closes the connection pool.
func (p *PostgresIndex) Close() error {
	p.pool.Close()
	return nil
}
