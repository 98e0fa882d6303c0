package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-hayes/audio-fingerprinter/internal/catalog"
	"github.com/ben-hayes/audio-fingerprinter/internal/index"
)

func newTestCatalog(t *testing.T) *catalog.SQLiteCatalog {
	t.Helper()
	c, err := catalog.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCatalog_RegisterAndListTracks(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	track := catalog.Track{
		ID:         "song-a",
		SourcePath: "/corpus/song-a.wav",
		Duration:   3 * time.Minute,
		SampleRate: 44100,
		IngestedAt: time.Unix(1000, 0).UTC(),
	}
	require.NoError(t, c.RegisterTrack(ctx, track))

	has, err := c.HasTrack(ctx, "song-a")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = c.HasTrack(ctx, "song-b")
	require.NoError(t, err)
	assert.False(t, has)

	tracks, err := c.ListTracks(ctx)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, index.TrackId("song-a"), tracks[0].ID)
	assert.Equal(t, track.SourcePath, tracks[0].SourcePath)
	assert.Equal(t, track.SampleRate, tracks[0].SampleRate)
}

func TestSQLiteCatalog_RegisterTrackDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	track := catalog.Track{ID: "song-a", SourcePath: "/corpus/song-a.wav", IngestedAt: time.Now()}
	require.NoError(t, c.RegisterTrack(ctx, track))

	err := c.RegisterTrack(ctx, track)
	assert.ErrorIs(t, err, catalog.ErrDuplicateTrack)
}

func TestSQLiteCatalog_IndexBlobRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	_, err := c.LoadIndexBlob(ctx)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	blob := []byte{1, 2, 3, 4, 5}
	require.NoError(t, c.SaveIndexBlob(ctx, blob))

	got, err := c.LoadIndexBlob(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	// Saving again must overwrite, not accumulate rows.
	blob2 := []byte{9, 9}
	require.NoError(t, c.SaveIndexBlob(ctx, blob2))
	got, err = c.LoadIndexBlob(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob2, got)
}
