package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ben-hayes/audio-fingerprinter/internal/audio"
	"github.com/ben-hayes/audio-fingerprinter/internal/catalog"
	"github.com/ben-hayes/audio-fingerprinter/internal/index"
	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

// runBuild fingerprints every .wav file under -dir, merges the results into
// a fresh index, and persists both the track bookkeeping and the
// serialized index blob to the catalog.
func runBuild(ctx context.Context, cfg config, reporter status.Reporter, args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	dir := fs.String("dir", "", "directory of reference .wav files")
	concurrency := fs.Int("concurrency", 4, "number of tracks fingerprinted concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("build: -dir is required")
	}

	files, err := audio.ListAudio(*dir)
	if err != nil {
		return fmt.Errorf("build: listing %s: %w", *dir, err)
	}
	reporter.Track("build.scanned", map[string]any{"dir": *dir, "tracks": len(files)})

	cat, err := openCatalog(cfg.dbDSN)
	if err != nil {
		return fmt.Errorf("build: opening catalog: %w", err)
	}
	defer cat.Close()

	idx := index.New()
	sources := make([]index.TrackSource, len(files))
	for i, f := range files {
		i, f := i, f
		sources[i] = index.TrackSource{
			ID: index.TrackId(f.ID),
			Hash: func() (hashSeq, error) {
				return hashFile(f.Path, cfg.params)
			},
		}
	}

	failures, err := index.BuildAll(ctx, idx, sources, *concurrency)
	if err != nil {
		return fmt.Errorf("build: aborted: %w", err)
	}
	for _, f := range failures {
		reporter.Track("build.track_failed", map[string]any{"track": string(f.ID), "error": f.Err.Error()})
	}

	for _, f := range files {
		if !idx.HasTrack(index.TrackId(f.ID)) {
			continue
		}
		err := cat.RegisterTrack(ctx, catalog.Track{
			ID:         index.TrackId(f.ID),
			SourcePath: f.Path,
			IngestedAt: time.Now(),
		})
		if err != nil {
			reporter.Track("build.register_failed", map[string]any{"track": f.ID, "error": err.Error()})
		}
	}

	var buf bytes.Buffer
	if err := idx.Encode(&buf); err != nil {
		return fmt.Errorf("build: encoding index: %w", err)
	}
	if err := cat.SaveIndexBlob(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("build: saving index blob: %w", err)
	}

	reporter.Track("build.finished", map[string]any{
		"tracks_ingested": len(idx.Tracks()),
		"hashes":          idx.HashCount(),
		"failures":        len(failures),
	})
	return nil
}
