package search_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-hayes/audio-fingerprinter/internal/search"
)

func TestSample_StaysWithinRanges(t *testing.T) {
	space := search.DefaultParameterSpace()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		p := search.Sample(space, rng)

		assert.True(t, p.Kappa >= space.Kappa.Min && p.Kappa <= space.Kappa.Max)
		assert.True(t, p.Tau >= space.Tau.Min && p.Tau <= space.Tau.Max)
		assert.True(t, p.TargetTimeOffset >= space.TargetTimeOffset.Min && p.TargetTimeOffset <= space.TargetTimeOffset.Max)
		assert.True(t, p.TargetTimeWidth >= space.TargetTimeWidth.Min && p.TargetTimeWidth <= space.TargetTimeWidth.Max)
		assert.True(t, p.TargetFreqHeight >= space.TargetFreqHeight.Min && p.TargetFreqHeight <= space.TargetFreqHeight.Max)
	}
}

func TestSample_HopClampedToTwiceWindowHalfWidth(t *testing.T) {
	space := search.DefaultParameterSpace()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		p := search.Sample(space, rng)
		assert.LessOrEqual(t, p.HopKappa, 2*p.Kappa)
		assert.LessOrEqual(t, p.HopTau, 2*p.Tau)
		assert.GreaterOrEqual(t, p.HopKappa, space.HopKappa.Min)
		assert.GreaterOrEqual(t, p.HopTau, space.HopTau.Min)
	}
}

func TestSample_HopClampExcludesTwiceKappaWhenItBinds(t *testing.T) {
	// Fix kappa/tau and widen the hop ranges so the 2*k clamp always binds,
	// mirroring numpy.random.randint(min, min(max, 2*k))'s exclusive upper
	// bound: the sampled hop must never reach 2*k, only approach it.
	space := search.ParameterSpace{
		Kappa:    search.ParamRange{Min: 10, Max: 10},
		Tau:      search.ParamRange{Min: 8, Max: 8},
		HopKappa: search.ParamRange{Min: 0, Max: 100},
		HopTau:   search.ParamRange{Min: 0, Max: 100},
	}
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 200; i++ {
		p := search.Sample(space, rng)
		assert.Less(t, p.HopKappa, 2*p.Kappa)
		assert.Less(t, p.HopTau, 2*p.Tau)
	}
}

func TestRun_PicksBestScoringTrial(t *testing.T) {
	space := search.DefaultParameterSpace()
	rng := rand.New(rand.NewSource(7))

	scores := []float64{0.1, 0.9, 0.4}
	n := 0
	evaluate := func(ctx context.Context, p search.Params) (float64, error) {
		s := scores[n]
		n++
		return s, nil
	}

	trials, best, err := search.Run(context.Background(), space, rng, len(scores), evaluate)
	require.NoError(t, err)
	require.Len(t, trials, 3)
	assert.Equal(t, 1, best)
	assert.Equal(t, 0.9, trials[best].Score)
}

func TestRun_StopsOnFirstError(t *testing.T) {
	space := search.DefaultParameterSpace()
	rng := rand.New(rand.NewSource(3))

	boom := errors.New("evaluation failed")
	n := 0
	evaluate := func(ctx context.Context, p search.Params) (float64, error) {
		n++
		if n == 2 {
			return 0, boom
		}
		return 1.0, nil
	}

	trials, _, err := search.Run(context.Background(), space, rng, 5, evaluate)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, trials, 1)
}
