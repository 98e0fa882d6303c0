package audio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-hayes/audio-fingerprinter/internal/audio"
)

func TestListAudio_FiltersToWavOnly(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"track-b.wav", "track-a.wav", "notes.txt", "track-c.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.wav"), 0o755))

	files, err := audio.ListAudio(dir)
	require.NoError(t, err)

	var ids []string
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"track-a", "track-b"}, ids)
}

func TestListAudio_EmptyDir(t *testing.T) {
	files, err := audio.ListAudio(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}
