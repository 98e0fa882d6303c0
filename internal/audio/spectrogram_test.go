package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowPassFilter_AttenuatesHighFrequency(t *testing.T) {
	sampleRate := 44100.0
	n := 4096
	signal := make([]float64, n)
	for i := range signal {
		tm := float64(i) / sampleRate
		signal[i] = math.Sin(2*math.Pi*200*tm) + math.Sin(2*math.Pi*15000*tm)
	}

	filtered := lowPassFilter(lowPassCutoffHz, sampleRate, signal)
	require.Len(t, filtered, n)

	var inEnergy, outEnergy float64
	for i := range signal {
		inEnergy += signal[i] * signal[i]
		outEnergy += filtered[i] * filtered[i]
	}
	assert.Less(t, outEnergy, inEnergy)
}

func TestDownsample_ReducesLengthByRatio(t *testing.T) {
	input := make([]float64, 1000)
	for i := range input {
		input[i] = float64(i)
	}

	out := downsample(input, 4)
	assert.Equal(t, 250, len(out))
}

func TestDownsample_RatioOneIsIdentity(t *testing.T) {
	input := []float64{1, 2, 3, 4}
	out := downsample(input, 1)
	assert.Equal(t, input, out)
}

func TestSpectrogram_ShapeIsFreqMajor(t *testing.T) {
	sampleRate := 44100
	n := frameSize * downsampleRatio * 6
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 440 * float64(i) / float64(sampleRate))
	}

	spec, err := Spectrogram(samples, sampleRate)
	require.NoError(t, err)
	require.Equal(t, frameSize/2, len(spec))
	require.NotEmpty(t, spec[0])

	for _, row := range spec {
		assert.Len(t, row, len(spec[0]))
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestSpectrogram_TooShortInputErrors(t *testing.T) {
	_, err := Spectrogram(make([]float64, 10), 44100)
	assert.ErrorIs(t, err, ErrSampleTooShort)
}
