// Package fingerprint implements the core landmark-fingerprinting pipeline:
// peak picking over a magnitude spectrogram, forward target-zone pair
// hashing, and the delta-histogram scorer used to rank candidate matches.
package fingerprint

import (
	"errors"
	"sort"
)

// ErrInvalidParameters is returned when a positive-integer precondition on
// a pipeline parameter is violated.
var ErrInvalidParameters = errors.New("fingerprint: invalid parameters")

// Peak is a single local maximum in a spectrogram, identified by its
// frequency bin (row) and time bin (column).
type Peak struct {
	Freq int
	Time int
}

// PeakMap is a set of Peak coordinates extracted from one spectrogram. Peak
// coordinates are unique; the same coordinate chosen by overlapping windows
// collapses to a single entry.
type PeakMap struct {
	freqBins int
	timeBins int
	peaks    map[Peak]struct{}
}

// NewPeakMap creates an empty PeakMap sized to a spectrogram of the given
// extents.
func NewPeakMap(freqBins, timeBins int) *PeakMap {
	return &PeakMap{
		freqBins: freqBins,
		timeBins: timeBins,
		peaks:    make(map[Peak]struct{}),
	}
}

func (m *PeakMap) add(p Peak) {
	m.peaks[p] = struct{}{}
}

// Len returns the number of distinct peaks in the map.
func (m *PeakMap) Len() int {
	return len(m.peaks)
}

// Sorted returns the peaks in row-major order (lowest frequency bin first,
// ties broken by time bin), the iteration order required by the pair
// hasher (§4.2).
func (m *PeakMap) Sorted() []Peak {
	out := make([]Peak, 0, len(m.peaks))
	for p := range m.peaks {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Freq != out[j].Freq {
			return out[i].Freq < out[j].Freq
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// PickPeaks tiles spectrogram with a regular grid of (2*kappa, 2*tau)
// windows, strided by (hopKappa, hopTau), and keeps exactly one peak per
// grid window: the coordinate of the window's maximum magnitude, ties
// broken by lowest row then lowest column. The grid has
// (freqBins-2*kappa)/hopKappa window rows and (timeBins-2*tau)/hopTau
// window columns (integer division), so windows that don't fully fit are
// ignored and a spectrogram no larger than one window in either dimension
// yields an empty, non-error PeakMap.
func PickPeaks(spectrogram [][]float64, kappa, tau, hopKappa, hopTau int) (*PeakMap, error) {
	if kappa <= 0 || tau <= 0 || hopKappa <= 0 || hopTau <= 0 {
		return nil, ErrInvalidParameters
	}

	freqBins := len(spectrogram)
	timeBins := 0
	if freqBins > 0 {
		timeBins = len(spectrogram[0])
	}

	peaks := NewPeakMap(freqBins, timeBins)

	if freqBins < 2*kappa || timeBins < 2*tau {
		return peaks, nil
	}

	nFreqSteps := (freqBins - 2*kappa) / hopKappa
	nTimeSteps := (timeBins - 2*tau) / hopTau

	for k := 0; k < nFreqSteps; k++ {
		freqLower := k * hopKappa
		freqUpper := freqLower + 2*kappa

		for n := 0; n < nTimeSteps; n++ {
			timeLower := n * hopTau
			timeUpper := timeLower + 2*tau

			peakFreq, peakTime := argmaxWindow(spectrogram, freqLower, freqUpper, timeLower, timeUpper)
			peaks.add(Peak{Freq: peakFreq, Time: peakTime})
		}
	}

	return peaks, nil
}

// argmaxWindow returns the absolute (freq, time) coordinate of the maximum
// magnitude in spectrogram[freqLower:freqUpper][timeLower:timeUpper],
// breaking ties by lowest row then lowest column (row-major linear argmax).
func argmaxWindow(spectrogram [][]float64, freqLower, freqUpper, timeLower, timeUpper int) (int, int) {
	bestFreq, bestTime := freqLower, timeLower
	best := spectrogram[freqLower][timeLower]

	for f := freqLower; f < freqUpper; f++ {
		row := spectrogram[f]
		for t := timeLower; t < timeUpper; t++ {
			if row[t] > best {
				best = row[t]
				bestFreq, bestTime = f, t
			}
		}
	}

	return bestFreq, bestTime
}
