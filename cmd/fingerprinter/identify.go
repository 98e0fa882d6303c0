package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/ben-hayes/audio-fingerprinter/internal/audio"
	"github.com/ben-hayes/audio-fingerprinter/internal/catalog"
	"github.com/ben-hayes/audio-fingerprinter/internal/index"
	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

// writeDebugSpectrogram decodes file and writes its magnitude spectrogram
// to path as a PNG, for visual inspection of the analysis front-end.
func writeDebugSpectrogram(file, path string) error {
	samples, sampleRate, err := audio.DecodeFile(file)
	if err != nil {
		return err
	}
	spectrogram, err := audio.Spectrogram(samples, sampleRate)
	if err != nil {
		return err
	}
	return audio.WriteSpectrogramPNG(spectrogram, path)
}

// runIdentify loads the catalog's persisted index and matches a single
// query file against it, printing the top-K ranking as the §6 output
// ranking line: "<query>\t<guess1>\t<guess2>\t<guess3>".
func runIdentify(ctx context.Context, cfg config, reporter status.Reporter, args []string) error {
	fs := flag.NewFlagSet("identify", flag.ExitOnError)
	file := fs.String("file", "", "query .wav or .mp3 file")
	topK := fs.Int("top", 3, "number of candidates to report")
	debugImage := fs.String("debug-image", "", "write the query's spectrogram to this PNG path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("identify: -file is required")
	}

	idx, cat, err := loadIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	if *debugImage != "" {
		if err := writeDebugSpectrogram(*file, *debugImage); err != nil {
			reporter.Track("identify.debug_image_failed", map[string]any{"error": err.Error()})
		}
	}

	hashes, err := hashFile(*file, cfg.params)
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	ranking := idx.Match(hashes, *topK)
	reporter.Track("identify.matched", map[string]any{"file": *file, "candidates": len(ranking)})

	fmt.Print(*file)
	for _, id := range ranking {
		fmt.Printf("\t%s", id)
	}
	fmt.Println()
	return nil
}

// loadIndex opens the catalog and decodes its persisted index blob.
func loadIndex(ctx context.Context, cfg config) (*index.Index, catalog.Catalog, error) {
	cat, err := openCatalog(cfg.dbDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}

	blob, err := cat.LoadIndexBlob(ctx)
	if err != nil {
		cat.Close()
		return nil, nil, fmt.Errorf("loading index blob: %w", err)
	}

	idx, err := index.Decode(bytes.NewReader(blob))
	if err != nil {
		cat.Close()
		return nil, nil, fmt.Errorf("decoding index: %w", err)
	}
	return idx, cat, nil
}
