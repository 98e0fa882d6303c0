// Package catalog is the durable bookkeeping layer on top of the
// in-memory Index: which tracks have been ingested, their source paths
// and durations, and the last serialized index blob. It is a convenience
// layer the CLI driver uses; the core index package never depends on it.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/ben-hayes/audio-fingerprinter/internal/index"
)

// ErrDuplicateTrack mirrors index.ErrDuplicateTrack at the catalog
// boundary: a track already registered may not be registered again.
var ErrDuplicateTrack = errors.New("catalog: track already registered")

// ErrNotFound is returned by lookups that find no matching row.
var ErrNotFound = errors.New("catalog: not found")

// Track is one corpus entry's durable bookkeeping row.
type Track struct {
	ID         index.TrackId
	SourcePath string
	Duration   time.Duration
	SampleRate int
	IngestedAt time.Time
}

// Catalog persists track bookkeeping and index blobs. Implementations
// are expected to be safe for concurrent use by independent goroutines
// during a build (one registration per track) and by a single reader at
// query time.
type Catalog interface {
	RegisterTrack(ctx context.Context, t Track) error
	HasTrack(ctx context.Context, id index.TrackId) (bool, error)
	ListTracks(ctx context.Context) ([]Track, error)
	SaveIndexBlob(ctx context.Context, blob []byte) error
	LoadIndexBlob(ctx context.Context) ([]byte, error)
	Close() error
}
