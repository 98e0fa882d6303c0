package main

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ben-hayes/audio-fingerprinter/internal/audio"
	"github.com/ben-hayes/audio-fingerprinter/internal/catalog"
	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
	"github.com/ben-hayes/audio-fingerprinter/internal/search"
)

// hashSeq names the lazy hash sequence type index.TrackSource.Hash and
// index.QueryInput.Hash both return, so callers don't repeat the iter.Seq
// instantiation at every call site.
type hashSeq = iter.Seq[fingerprint.HashedPeak]

// isPostgresDSN reports whether dsn names a Postgres connection rather than
// a SQLite file path, by checking for the scheme postgres connection
// strings always carry.
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// openCatalog picks the catalog.Catalog backend from dsn's scheme: a
// postgres:// or postgresql:// DSN opens the raw-SQL PostgresCatalog
// (SPEC_FULL §4.8), anything else is treated as a SQLite file path and
// opens the pure-Go, cgo-free SQLiteCatalog the teacher's own db layer
// favours for local use.
func openCatalog(dsn string) (catalog.Catalog, error) {
	if isPostgresDSN(dsn) {
		return catalog.NewPostgres(dsn)
	}
	return catalog.NewSQLite(dsn)
}

// hashFile decodes path and runs the full peak-picking + pair-hashing
// pipeline over its spectrogram using p's config integers.
func hashFile(path string, p search.Params) (iter.Seq[fingerprint.HashedPeak], error) {
	samples, sampleRate, err := audio.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	spectrogram, err := audio.Spectrogram(samples, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("computing spectrogram for %s: %w", path, err)
	}

	peaks, err := fingerprint.PickPeaks(spectrogram, p.Kappa, p.Tau, p.HopKappa, p.HopTau)
	if err != nil {
		return nil, fmt.Errorf("picking peaks for %s: %w", path, err)
	}

	hashes, err := fingerprint.Pairs(peaks, p.PairOptions())
	if err != nil {
		return nil, fmt.Errorf("hashing pairs for %s: %w", path, err)
	}
	return hashes, nil
}
