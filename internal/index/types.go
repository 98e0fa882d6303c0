// Package index implements the inverted pair-hash index: append-only
// ingestion during corpus build, and read-only delta-histogram matching
// during query.
package index

import (
	"errors"
	"sync"

	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
)

// TrackId identifies a reference recording, typically its file stem.
type TrackId string

// IndexEntry is one occurrence of a pair hash in a track's postings list.
type IndexEntry struct {
	TrackId    TrackId
	AnchorTime int
}

// Ranking is an ordered list of candidate TrackIds, best match first.
type Ranking []TrackId

// ErrDuplicateTrack is returned by Ingest when a TrackId has already been
// ingested into this Index.
var ErrDuplicateTrack = errors.New("index: track already ingested")

// ErrCorruptIndex is returned by Decode when the byte stream fails
// structural validation.
var ErrCorruptIndex = errors.New("index: corrupt serialized index")

// Index is the inverted map from pair hash to postings list. It is
// write-only during build and read-only during query: concurrent readers
// are safe, concurrent writers are not, and the mutex here exists to make
// that phase boundary safe to violate by accident rather than to allow
// interleaved read/write traffic.
type Index struct {
	mu         sync.RWMutex
	postings   map[fingerprint.PairHash][]IndexEntry
	tracks     map[TrackId]struct{}
	trackOrder []TrackId
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		postings: make(map[fingerprint.PairHash][]IndexEntry),
		tracks:   make(map[TrackId]struct{}),
	}
}

// Tracks returns the ingested TrackIds in ingestion order.
func (idx *Index) Tracks() []TrackId {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]TrackId, len(idx.trackOrder))
	copy(out, idx.trackOrder)
	return out
}

// HasTrack reports whether id has already been ingested.
func (idx *Index) HasTrack(id TrackId) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, ok := idx.tracks[id]
	return ok
}

// HashCount returns the number of distinct pair hashes in the index.
func (idx *Index) HashCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.postings)
}

// Lookup returns the postings list for hash h, or nil if h is unseen. The
// returned slice must not be mutated by the caller.
func (idx *Index) Lookup(h fingerprint.PairHash) []IndexEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.postings[h]
}
