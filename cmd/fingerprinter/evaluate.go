package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/ben-hayes/audio-fingerprinter/internal/audio"
	"github.com/ben-hayes/audio-fingerprinter/internal/eval"
	"github.com/ben-hayes/audio-fingerprinter/internal/index"
	"github.com/ben-hayes/audio-fingerprinter/internal/status"
)

// runEvaluate matches every query under -queries against the catalog's
// persisted index, renders the §6 ranking lines, and reports
// precision/recall/F-measure/MAP over them.
func runEvaluate(ctx context.Context, cfg config, reporter status.Reporter, args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	queriesDir := fs.String("queries", "", "directory of query .wav files")
	topK := fs.Int("top", 3, "ranking depth to report")
	concurrency := fs.Int("concurrency", 4, "number of queries matched concurrently")
	numRelevant := fs.Int("relevant", 1, "number of relevant documents per query (ground truth count)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *queriesDir == "" {
		return fmt.Errorf("evaluate: -queries is required")
	}

	idx, cat, err := loadIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	rankingText, err := evaluateQueries(ctx, idx, *queriesDir, *topK, *concurrency, cfg, reporter)
	if err != nil {
		return err
	}

	judgments, err := eval.ParseRanking(bytes.NewReader(rankingText))
	if err != nil {
		return fmt.Errorf("evaluate: parsing ranking output: %w", err)
	}

	relevances := eval.Relevances(judgments)
	for r := 1; r <= *topK; r++ {
		prec := eval.Precision(r, relevances)
		rec := eval.Recall(r, relevances, *numRelevant)
		f := eval.FMeasure(r, relevances, *numRelevant)
		reporter.Track("evaluate.rank", map[string]any{
			"rank":      r,
			"precision": mean(prec),
			"recall":    mean(rec),
			"fmeasure":  mean(f),
		})
	}

	mAP := eval.MeanAvgPrecision(relevances, *numRelevant)
	reporter.Track("evaluate.finished", map[string]any{"queries": len(judgments), "map": mAP})
	fmt.Printf("mean average precision: %.4f\n", mAP)
	return nil
}

func evaluateQueries(ctx context.Context, idx *index.Index, dir string, topK, concurrency int, cfg config, reporter status.Reporter) ([]byte, error) {
	files, err := audio.ListAudio(dir)
	if err != nil {
		return nil, fmt.Errorf("evaluate: listing %s: %w", dir, err)
	}

	queries := make([]index.QueryInput, len(files))
	for i, f := range files {
		i, f := i, f
		queries[i] = index.QueryInput{
			Name: f.ID + ".wav",
			Hash: func() (hashSeq, error) {
				return hashFile(f.Path, cfg.params)
			},
		}
	}

	results, err := index.MatchBatch(ctx, idx, queries, topK, concurrency)
	if err != nil {
		return nil, fmt.Errorf("evaluate: matching: %w", err)
	}

	var buf bytes.Buffer
	for _, r := range results {
		if r.Err != nil {
			reporter.Track("evaluate.query_failed", map[string]any{"query": r.Name, "error": r.Err.Error()})
			fmt.Fprintln(&buf, r.Name)
			continue
		}
		fmt.Fprint(&buf, r.Name)
		for _, id := range r.Ranking {
			fmt.Fprintf(&buf, "\t%s", id)
		}
		fmt.Fprintln(&buf)
	}
	return buf.Bytes(), nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
