package index

import (
	"context"
	"iter"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
)

// QueryDeltas maps each candidate track touched by a query to its list of
// (anchor_time_in_track - anchor_time_in_query) deltas.
type QueryDeltas map[TrackId][]int

// Deltas builds a QueryDeltas by looking up every hash in queryHashes
// against idx's postings. queryHashes is consumed exactly once.
func (idx *Index) Deltas(queryHashes iter.Seq[fingerprint.HashedPeak]) QueryDeltas {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	deltas := make(QueryDeltas)
	queryHashes(func(q fingerprint.HashedPeak) bool {
		for _, entry := range idx.postings[q.Hash] {
			deltas[entry.TrackId] = append(deltas[entry.TrackId], entry.AnchorTime-q.AnchorTime)
		}
		return true
	})
	return deltas
}

// Match runs the full query procedure (§4.4): build deltas, score every
// candidate with fingerprint.Score, then sort by score descending with
// TrackId as the deterministic tiebreaker. topK <= 0 returns every scored
// candidate; otherwise the result is truncated to at most topK entries.
func (idx *Index) Match(queryHashes iter.Seq[fingerprint.HashedPeak], topK int) Ranking {
	return rank(idx.Deltas(queryHashes), topK)
}

func rank(deltas QueryDeltas, topK int) Ranking {
	type scored struct {
		id    TrackId
		score int
	}
	candidates := make([]scored, 0, len(deltas))
	for id, ds := range deltas {
		candidates = append(candidates, scored{id: id, score: fingerprint.Score(ds)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})

	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make(Ranking, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// QueryInput lazily produces one query's hash sequence.
type QueryInput struct {
	Name  string
	Hash func() (iter.Seq[fingerprint.HashedPeak], error)
}

// BatchResult is one query's outcome from MatchBatch.
type BatchResult struct {
	Name    string
	Ranking Ranking
	Err     error
}

// MatchBatch matches every query concurrently, bounded by concurrency
// workers, and returns one BatchResult per query in input order. Each
// query reads idx immutably, so unlike BuildAll there is no ordering
// constraint across queries to preserve.
func MatchBatch(ctx context.Context, idx *Index, queries []QueryInput, topK, concurrency int) ([]BatchResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, concurrency)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			hashes, err := q.Hash()
			if err != nil {
				results[i] = BatchResult{Name: q.Name, Err: err}
				return nil
			}
			results[i] = BatchResult{Name: q.Name, Ranking: idx.Match(hashes, topK)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
