//go:build !js && !wasm

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ben-hayes/audio-fingerprinter/internal/capture"
	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

// runRecord captures a microphone clip and, unless -out is given, matches
// it against the catalog's persisted index the same way runIdentify does.
func runRecord(ctx context.Context, cfg config, reporter status.Reporter, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	duration := fs.Duration("duration", 5*time.Second, "recording length")
	out := fs.String("out", "", "write the captured clip here instead of identifying it")
	topK := fs.Int("top", 3, "number of candidates to report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := capture.Record(*duration, reporter)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	path := *out
	if path == "" {
		f, err := os.CreateTemp("", "fingerprinter-capture-*.wav")
		if err != nil {
			return fmt.Errorf("record: creating temp file: %w", err)
		}
		path = f.Name()
		f.Close()
		defer os.Remove(path)
	}

	if err := capture.WriteWav(path, result); err != nil {
		return fmt.Errorf("record: writing wav: %w", err)
	}

	if *out != "" {
		reporter.Track("record.saved", map[string]any{"path": path})
		return nil
	}

	return runIdentify(ctx, cfg, reporter, []string{"-file", path, "-top", fmt.Sprint(*topK)})
}
