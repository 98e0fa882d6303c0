package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

// runStats reports the catalog's track count and lists every registered
// track's source path and sample rate.
func runStats(ctx context.Context, cfg config, reporter status.Reporter, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := openCatalog(cfg.dbDSN)
	if err != nil {
		return fmt.Errorf("stats: opening catalog: %w", err)
	}
	defer cat.Close()

	tracks, err := cat.ListTracks(ctx)
	if err != nil {
		return fmt.Errorf("stats: listing tracks: %w", err)
	}

	reporter.Track("stats.summary", map[string]any{"tracks": len(tracks)})
	for _, t := range tracks {
		fmt.Printf("%s\t%s\t%dHz\n", t.ID, t.SourcePath, t.SampleRate)
	}
	return nil
}
