package fingerprint

import "iter"

// PairHash is a landmark: an anchor frequency bin paired with a target
// frequency bin found forward in time, and the (nonnegative) number of
// spectrogram columns between them. It is a plain value type so it can be
// used directly as a map key (see internal/index).
type PairHash struct {
	AnchorFreq int
	TargetFreq int
	DeltaTime  int
}

// HashedPeak pairs a PairHash with the absolute column index of the anchor
// peak that produced it.
type HashedPeak struct {
	Hash       PairHash
	AnchorTime int
}

// PairOptions configures the target-zone geometry used by Pairs.
type PairOptions struct {
	TargetTimeOffset int // >= 1
	TargetTimeWidth  int // > 0
	TargetFreqHeight int // > 0
}

// Pairs enumerates, for every anchor peak in peaks (row-major order), the
// peaks inside its forward target zone and yields one HashedPeak per
// (anchor, target) combination. The target zone for an anchor at
// (k1, n1) is the rectangle
//
//	[max(0, k1-TargetFreqHeight), min(freqBins, k1+TargetFreqHeight))
//	x [n1+TargetTimeOffset, n1+TargetTimeOffset+TargetTimeWidth)
//
// clipped against the extent of peaks. Target-peak iteration within one
// anchor's zone is row-major; no deduplication is performed, so the same
// (k1, k2, Δn) triple may recur across anchors with different anchor
// times. The returned sequence is lazy, single-use, and not safe to range
// over twice — collect it into a slice first if you need multiple passes.
func Pairs(peaks *PeakMap, opts PairOptions) (iter.Seq[HashedPeak], error) {
	if opts.TargetTimeOffset < 1 || opts.TargetTimeWidth < 1 || opts.TargetFreqHeight < 1 {
		return nil, ErrInvalidParameters
	}

	sorted := peaks.Sorted()
	freqBins := peaks.freqBins

	return func(yield func(HashedPeak) bool) {
		for _, anchor := range sorted {
			freqLower := anchor.Freq - opts.TargetFreqHeight
			if freqLower < 0 {
				freqLower = 0
			}
			freqUpper := anchor.Freq + opts.TargetFreqHeight
			if freqUpper > freqBins {
				freqUpper = freqBins
			}
			timeLower := anchor.Time + opts.TargetTimeOffset
			timeUpper := timeLower + opts.TargetTimeWidth

			// sorted is row-major by (Freq, Time) across the whole map, so
			// filtering it in place yields targets in row-major order
			// within the zone too; freq grows monotonically, so once a
			// candidate's freq clears the zone no later one can re-enter
			// it.
			for _, target := range sorted {
				if target.Freq < freqLower {
					continue
				}
				if target.Freq >= freqUpper {
					break
				}
				if target.Time < timeLower || target.Time >= timeUpper {
					continue
				}

				h := HashedPeak{
					Hash: PairHash{
						AnchorFreq: anchor.Freq,
						TargetFreq: target.Freq,
						DeltaTime:  target.Time - anchor.Time,
					},
					AnchorTime: anchor.Time,
				}
				if !yield(h) {
					return
				}
			}
		}
	}, nil
}
