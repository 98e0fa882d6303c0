package index

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
)

// Ingest appends hashes to the index under TrackId id. hashes is consumed
// exactly once. Ingesting an id that was already ingested returns
// ErrDuplicateTrack and leaves the index unchanged.
func (idx *Index) Ingest(id TrackId, hashes iter.Seq[fingerprint.HashedPeak]) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.tracks[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTrack, id)
	}

	hashes(func(h fingerprint.HashedPeak) bool {
		idx.postings[h.Hash] = append(idx.postings[h.Hash], IndexEntry{TrackId: id, AnchorTime: h.AnchorTime})
		return true
	})

	idx.tracks[id] = struct{}{}
	idx.trackOrder = append(idx.trackOrder, id)
	return nil
}

// TrackSource lazily produces one track's hash sequence, typically by
// running the peak picker and pair hasher over its spectrogram.
type TrackSource struct {
	ID   TrackId
	Hash func() (iter.Seq[fingerprint.HashedPeak], error)
}

// Failure records why one track's ingestion did not complete.
type Failure struct {
	ID  TrackId
	Err error
}

// BuildAll fingerprints every source concurrently, bounded by concurrency
// workers, but appends the resulting postings into idx strictly in the
// order sources was given. Per-track fingerprinting is independent of
// ingestion order, but the postings merge is not: ranking ties are broken
// deterministically (§4.4) only if every implementation ingests tracks in
// the same relative order, so parallel fingerprinting must never be
// allowed to reorder the append phase.
//
// A track whose Hash func fails, or that turns out to be a duplicate, is
// recorded in the returned failures and skipped; every other track is
// ingested normally. BuildAll itself only returns an error for a context
// cancellation/deadline, which aborts the whole build.
func BuildAll(ctx context.Context, idx *Index, sources []TrackSource, concurrency int) ([]Failure, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	type computed struct {
		hashes iter.Seq[fingerprint.HashedPeak]
		err    error
	}
	results := make([]computed, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, concurrency)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			hashes, err := src.Hash()
			results[i] = computed{hashes: hashes, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failures []Failure
	for i, src := range sources {
		r := results[i]
		if r.err != nil {
			failures = append(failures, Failure{ID: src.ID, Err: r.err})
			continue
		}
		if err := idx.Ingest(src.ID, r.hashes); err != nil {
			failures = append(failures, Failure{ID: src.ID, Err: err})
		}
	}
	return failures, nil
}
