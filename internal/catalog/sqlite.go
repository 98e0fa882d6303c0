package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ben-hayes/audio-fingerprinter/internal/index"
)

// trackRow is the GORM model backing Track in the SQLite catalog.
type trackRow struct {
	ID         string `gorm:"primaryKey"`
	SourcePath string
	DurationMs int64
	SampleRate int
	IngestedAt time.Time
}

// indexBlobRow stores the single most recent serialized index. A fixed
// primary key of 1 keeps this a one-row table without a separate
// "current" pointer.
type indexBlobRow struct {
	ID   uint `gorm:"primaryKey"`
	Blob []byte
}

// SQLiteCatalog is a pure-Go, cgo-free catalog backed by
// github.com/glebarez/sqlite + gorm.io/gorm. It is the default for local
// use and tests.
type SQLiteCatalog struct {
	db *gorm.DB
}

// NewSQLite opens (or creates) a SQLite catalog at path. path may be
// ":memory:" for an ephemeral, test-only catalog.
func NewSQLite(path string) (*SQLiteCatalog, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: opening sqlite db: %w", err)
	}

	if err := db.AutoMigrate(&trackRow{}, &indexBlobRow{}); err != nil {
		return nil, fmt.Errorf("catalog: auto migrate: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

func (c *SQLiteCatalog) RegisterTrack(ctx context.Context, t Track) error {
	row := trackRow{
		ID:         string(t.ID),
		SourcePath: t.SourcePath,
		DurationMs: t.Duration.Milliseconds(),
		SampleRate: t.SampleRate,
		IngestedAt: t.IngestedAt,
	}

	err := c.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateTrack, t.ID)
		}
		return fmt.Errorf("catalog: registering track %s: %w", t.ID, err)
	}
	return nil
}

func (c *SQLiteCatalog) HasTrack(ctx context.Context, id index.TrackId) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&trackRow{}).Where("id = ?", string(id)).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("catalog: checking track %s: %w", id, err)
	}
	return count > 0, nil
}

func (c *SQLiteCatalog) ListTracks(ctx context.Context) ([]Track, error) {
	var rows []trackRow
	if err := c.db.WithContext(ctx).Order("ingested_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: listing tracks: %w", err)
	}

	out := make([]Track, len(rows))
	for i, r := range rows {
		out[i] = Track{
			ID:         index.TrackId(r.ID),
			SourcePath: r.SourcePath,
			Duration:   time.Duration(r.DurationMs) * time.Millisecond,
			SampleRate: r.SampleRate,
			IngestedAt: r.IngestedAt,
		}
	}
	return out, nil
}

func (c *SQLiteCatalog) SaveIndexBlob(ctx context.Context, blob []byte) error {
	row := indexBlobRow{ID: 1, Blob: blob}
	err := c.db.WithContext(ctx).
		Where("id = ?", 1).
		Assign(indexBlobRow{Blob: blob}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("catalog: saving index blob: %w", err)
	}
	return nil
}

func (c *SQLiteCatalog) LoadIndexBlob(ctx context.Context) ([]byte, error) {
	var row indexBlobRow
	err := c.db.WithContext(ctx).First(&row, 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: loading index blob: %w", err)
	}
	return row.Blob, nil
}

func (c *SQLiteCatalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
