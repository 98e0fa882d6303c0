package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ben-hayes/audio-fingerprinter/internal/index"
)

// PostgresCatalog is a catalog backed directly by database/sql and the
// pgx stdlib driver, for production deployments. Unlike SQLiteCatalog it
// does not go through GORM: this mirrors the teacher repo's own
// split between a GORM-backed SQLite store and a raw-SQL Postgres store.
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgres opens a Postgres catalog via dsn and creates its schema if
// absent.
func NewPostgres(dsn string) (*PostgresCatalog, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("catalog: connecting to postgres: %w", err)
	}
	if err := createPostgresSchema(db); err != nil {
		return nil, fmt.Errorf("catalog: creating schema: %w", err)
	}
	return &PostgresCatalog{db: db}, nil
}

func createPostgresSchema(db *sql.DB) error {
	const createTracks = `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		sample_rate INTEGER NOT NULL,
		ingested_at TIMESTAMPTZ NOT NULL
	);`

	const createIndexBlobs = `
	CREATE TABLE IF NOT EXISTS index_blobs (
		id INTEGER PRIMARY KEY,
		blob BYTEA NOT NULL
	);`

	if _, err := db.Exec(createTracks); err != nil {
		return fmt.Errorf("creating tracks table: %w", err)
	}
	if _, err := db.Exec(createIndexBlobs); err != nil {
		return fmt.Errorf("creating index_blobs table: %w", err)
	}
	return nil
}

func (c *PostgresCatalog) RegisterTrack(ctx context.Context, t Track) error {
	const q = `INSERT INTO tracks (id, source_path, duration_ms, sample_rate, ingested_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := c.db.ExecContext(ctx, q, string(t.ID), t.SourcePath, t.Duration.Milliseconds(), t.SampleRate, t.IngestedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("%w: %s", ErrDuplicateTrack, t.ID)
		}
		return fmt.Errorf("catalog: registering track %s: %w", t.ID, err)
	}
	return nil
}

func (c *PostgresCatalog) HasTrack(ctx context.Context, id index.TrackId) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tracks WHERE id = $1)`, string(id)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("catalog: checking track %s: %w", id, err)
	}
	return exists, nil
}

func (c *PostgresCatalog) ListTracks(ctx context.Context) ([]Track, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, source_path, duration_ms, sample_rate, ingested_at FROM tracks ORDER BY ingested_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing tracks: %w", err)
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		var id, path string
		var durationMs int64
		var sampleRate int
		var ingestedAt time.Time
		if err := rows.Scan(&id, &path, &durationMs, &sampleRate, &ingestedAt); err != nil {
			return nil, fmt.Errorf("catalog: scanning track row: %w", err)
		}
		out = append(out, Track{
			ID:         index.TrackId(id),
			SourcePath: path,
			Duration:   time.Duration(durationMs) * time.Millisecond,
			SampleRate: sampleRate,
			IngestedAt: ingestedAt,
		})
	}
	return out, rows.Err()
}

func (c *PostgresCatalog) SaveIndexBlob(ctx context.Context, blob []byte) error {
	const q = `
	INSERT INTO index_blobs (id, blob) VALUES (1, $1)
	ON CONFLICT (id) DO UPDATE SET blob = EXCLUDED.blob`

	_, err := c.db.ExecContext(ctx, q, blob)
	if err != nil {
		return fmt.Errorf("catalog: saving index blob: %w", err)
	}
	return nil
}

func (c *PostgresCatalog) LoadIndexBlob(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx, `SELECT blob FROM index_blobs WHERE id = 1`).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: loading index blob: %w", err)
	}
	return blob, nil
}

func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}
