// Package audio implements the external audio collaborator: file decode
// to mono samples, magnitude spectrogram computation, and corpus
// directory scanning. None of it is part of the core fingerprinting
// pipeline; internal/fingerprint only ever consumes the [][]float64
// spectrogram this package produces.
package audio

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	frameSize       = 1024
	hopSize         = frameSize / 2
	lowPassCutoffHz = 5000.0
	downsampleRatio = 4
)

// ErrSampleTooShort is returned when the input, after filtering and
// downsampling, is shorter than a single analysis frame.
var ErrSampleTooShort = errors.New("audio: sample shorter than one analysis frame")

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// lowPassFilter is a one-pole RC low-pass, same form as the teacher's
// anti-aliasing filter ahead of downsampling.
func lowPassFilter(cutoffHz, sampleRate float64, input []float64) []float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoffHz)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)

	out := make([]float64, len(input))
	var prev float64
	for i, x := range input {
		if i == 0 {
			out[i] = x * alpha
		} else {
			out[i] = alpha*x + (1-alpha)*prev
		}
		prev = out[i]
	}
	return out
}

func downsample(input []float64, ratio int) []float64 {
	if ratio <= 1 {
		out := make([]float64, len(input))
		copy(out, input)
		return out
	}

	out := make([]float64, 0, len(input)/ratio+1)
	for i := 0; i < len(input); i += ratio {
		end := i + ratio
		if end > len(input) {
			end = len(input)
		}
		var sum float64
		for _, x := range input[i:end] {
			sum += x
		}
		out = append(out, sum/float64(end-i))
	}
	return out
}

// Spectrogram computes a magnitude spectrogram from mono samples: low-pass
// filter at lowPassCutoffHz, downsample by downsampleRatio, frame with a
// Hann window, and FFT each frame with mjibson/go-dsp. The result is
// freq-major — spectrogram[freqBin][timeFrame] — with frequency rows
// Nyquist-limited to the first half of each frame's FFT, matching the
// core's spectrogram contract (§3).
func Spectrogram(samples []float64, sampleRate int) ([][]float64, error) {
	filtered := lowPassFilter(lowPassCutoffHz, float64(sampleRate), samples)
	down := downsample(filtered, downsampleRatio)

	if len(down) < frameSize {
		return nil, ErrSampleTooShort
	}

	window := hannWindow(frameSize)
	freqBins := frameSize / 2

	var frames [][]float64
	for start := 0; start+frameSize <= len(down); start += hopSize {
		frame := make([]float64, frameSize)
		copy(frame, down[start:start+frameSize])
		for i := range frame {
			frame[i] *= window[i]
		}

		spectrum := fft.FFTReal(frame)
		mag := make([]float64, freqBins)
		for i := range mag {
			mag[i] = cmplx.Abs(spectrum[i])
		}
		frames = append(frames, mag)
	}

	spectrogram := make([][]float64, freqBins)
	for f := range spectrogram {
		spectrogram[f] = make([]float64, len(frames))
		for t, frame := range frames {
			spectrogram[f][t] = frame[f]
		}
	}
	return spectrogram, nil
}
