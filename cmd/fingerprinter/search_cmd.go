package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"math/rand"

	"github.com/ben-hayes/audio-fingerprinter/internal/audio"
	"github.com/ben-hayes/audio-fingerprinter/internal/eval"
	"github.com/ben-hayes/audio-fingerprinter/internal/index"
	"github.com/ben-hayes/audio-fingerprinter/internal/search"
	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

// runSearch drives internal/search.Run: each trial builds a fresh in-memory
// index over -train with freshly sampled parameters, matches -queries
// against it, and scores the trial by mean average precision.
func runSearch(ctx context.Context, cfg config, reporter status.Reporter, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	trainDir := fs.String("train", "", "directory of reference .wav files")
	queriesDir := fs.String("queries", "", "directory of query .wav files")
	attempts := fs.Int("attempts", 20, "number of random parameter trials")
	topK := fs.Int("top", 3, "ranking depth used for scoring")
	numRelevant := fs.Int("relevant", 1, "number of relevant documents per query")
	seed := fs.Int64("seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *trainDir == "" || *queriesDir == "" {
		return fmt.Errorf("search: -train and -queries are required")
	}

	files, err := audio.ListAudio(*trainDir)
	if err != nil {
		return fmt.Errorf("search: listing %s: %w", *trainDir, err)
	}

	space := search.DefaultParameterSpace()
	rng := rand.New(rand.NewSource(*seed))

	evaluate := func(ctx context.Context, p search.Params) (float64, error) {
		idx := index.New()
		sources := make([]index.TrackSource, len(files))
		for i, f := range files {
			i, f := i, f
			sources[i] = index.TrackSource{
				ID: index.TrackId(f.ID),
				Hash: func() (hashSeq, error) {
					return hashFile(f.Path, p)
				},
			}
		}
		if _, err := index.BuildAll(ctx, idx, sources, 4); err != nil {
			return 0, fmt.Errorf("building trial index: %w", err)
		}

		trialCfg := cfg
		trialCfg.params = p
		rankingText, err := evaluateQueries(ctx, idx, *queriesDir, *topK, 4, trialCfg, status.NoOp{})
		if err != nil {
			return 0, err
		}

		judgments, err := eval.ParseRanking(bytes.NewReader(rankingText))
		if err != nil {
			return 0, fmt.Errorf("parsing trial ranking: %w", err)
		}
		relevances := eval.Relevances(judgments)
		return eval.MeanAvgPrecision(relevances, *numRelevant), nil
	}

	trials, best, err := search.Run(ctx, space, rng, *attempts, evaluate)
	for i, t := range trials {
		reporter.Track("search.trial", map[string]any{"index": i, "score": t.Score, "kappa": t.Params.Kappa, "tau": t.Params.Tau})
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if best < 0 {
		return fmt.Errorf("search: no trials ran")
	}

	reporter.Track("search.finished", map[string]any{"best_index": best, "best_score": trials[best].Score})
	fmt.Printf("best trial %d: score=%.4f params=%+v\n", best, trials[best].Score, trials[best].Params)
	return nil
}
