package audio

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TrackFile pairs a catalog track id (the file stem) with its source path.
type TrackFile struct {
	ID   string
	Path string
}

// ListAudio scans dir non-recursively for .wav files, silently skipping
// every other extension (§6), and returns them sorted by track id for a
// deterministic build order.
func ListAudio(dir string) ([]TrackFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []TrackFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) != ".wav" {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		out = append(out, TrackFile{ID: stem, Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
