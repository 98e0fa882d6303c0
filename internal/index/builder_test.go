package index_test

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
	"github.com/ben-hayes/audio-fingerprinter/internal/index"
)

func seqOf(hashes ...fingerprint.HashedPeak) iter.Seq[fingerprint.HashedPeak] {
	return func(yield func(fingerprint.HashedPeak) bool) {
		for _, h := range hashes {
			if !yield(h) {
				return
			}
		}
	}
}

func TestIngest_DuplicateTrackRejected(t *testing.T) {
	idx := index.New()
	h := fingerprint.HashedPeak{Hash: fingerprint.PairHash{AnchorFreq: 1, TargetFreq: 2, DeltaTime: 3}, AnchorTime: 0}

	require.NoError(t, idx.Ingest("trackA", seqOf(h)))
	err := idx.Ingest("trackA", seqOf(h))
	assert.ErrorIs(t, err, index.ErrDuplicateTrack)

	// The rejected re-ingestion must not have appended a second entry.
	assert.Len(t, idx.Lookup(h.Hash), 1)
}

func TestIngest_PreservesInsertionOrderInPostings(t *testing.T) {
	idx := index.New()
	hash := fingerprint.PairHash{AnchorFreq: 1, TargetFreq: 2, DeltaTime: 3}

	require.NoError(t, idx.Ingest("first", seqOf(fingerprint.HashedPeak{Hash: hash, AnchorTime: 10})))
	require.NoError(t, idx.Ingest("second", seqOf(fingerprint.HashedPeak{Hash: hash, AnchorTime: 20})))

	entries := idx.Lookup(hash)
	require.Len(t, entries, 2)
	assert.Equal(t, index.TrackId("first"), entries[0].TrackId)
	assert.Equal(t, index.TrackId("second"), entries[1].TrackId)
}

func TestBuildAll_ConcurrentFingerprintingDeterministicMerge(t *testing.T) {
	hash := fingerprint.PairHash{AnchorFreq: 5, TargetFreq: 6, DeltaTime: 7}

	sources := make([]index.TrackSource, 20)
	for i := range sources {
		i := i
		sources[i] = index.TrackSource{
			ID: index.TrackId("track-" + string(rune('a'+i))),
			Hash: func() (iter.Seq[fingerprint.HashedPeak], error) {
				return seqOf(fingerprint.HashedPeak{Hash: hash, AnchorTime: i}), nil
			},
		}
	}

	idx := index.New()
	failures, err := index.BuildAll(context.Background(), idx, sources, 8)
	require.NoError(t, err)
	assert.Empty(t, failures)

	entries := idx.Lookup(hash)
	require.Len(t, entries, len(sources))
	for i, e := range entries {
		assert.Equal(t, sources[i].ID, e.TrackId)
		assert.Equal(t, i, e.AnchorTime)
	}
}

func TestBuildAll_TrackFailureDoesNotAbortOthers(t *testing.T) {
	hash := fingerprint.PairHash{AnchorFreq: 1, TargetFreq: 1, DeltaTime: 1}
	boom := assert.AnError

	sources := []index.TrackSource{
		{ID: "ok-1", Hash: func() (iter.Seq[fingerprint.HashedPeak], error) {
			return seqOf(fingerprint.HashedPeak{Hash: hash, AnchorTime: 0}), nil
		}},
		{ID: "broken", Hash: func() (iter.Seq[fingerprint.HashedPeak], error) {
			return nil, boom
		}},
		{ID: "ok-2", Hash: func() (iter.Seq[fingerprint.HashedPeak], error) {
			return seqOf(fingerprint.HashedPeak{Hash: hash, AnchorTime: 1}), nil
		}},
	}

	idx := index.New()
	failures, err := index.BuildAll(context.Background(), idx, sources, 2)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, index.TrackId("broken"), failures[0].ID)

	assert.True(t, idx.HasTrack("ok-1"))
	assert.True(t, idx.HasTrack("ok-2"))
	assert.False(t, idx.HasTrack("broken"))
}
