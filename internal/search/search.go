// Package search implements the random-parameter-search driver ported
// from the original corpus-tuning script: it samples the seven core
// config integers from fixed ranges, hands each sampled set to an
// evaluator supplied by the caller, and tracks the best-scoring attempt.
package search

import (
	"context"
	"math/rand"

	"github.com/ben-hayes/audio-fingerprinter/internal/fingerprint"
)

// ParamRange is an inclusive [Min, Max] sampling range.
type ParamRange struct {
	Min, Max int
}

// ParameterSpace bounds every config integer the search samples.
type ParameterSpace struct {
	Kappa, Tau, HopKappa, HopTau                        ParamRange
	TargetTimeOffset, TargetTimeWidth, TargetFreqHeight ParamRange
}

// DefaultParameterSpace mirrors the ranges the original random-search
// driver hard-codes.
func DefaultParameterSpace() ParameterSpace {
	return ParameterSpace{
		Kappa:            ParamRange{53, 73},
		Tau:              ParamRange{6, 26},
		HopKappa:         ParamRange{58, 78},
		HopTau:           ParamRange{6, 26},
		TargetTimeOffset: ParamRange{2, 22},
		TargetTimeWidth:  ParamRange{188, 198},
		TargetFreqHeight: ParamRange{200, 220},
	}
}

// Params is one fully sampled set of the core's seven config integers.
type Params struct {
	Kappa, Tau, HopKappa, HopTau                        int
	TargetTimeOffset, TargetTimeWidth, TargetFreqHeight int
}

// PairOptions projects the pair-hashing subset of Params into
// fingerprint.PairOptions.
func (p Params) PairOptions() fingerprint.PairOptions {
	return fingerprint.PairOptions{
		TargetTimeOffset: p.TargetTimeOffset,
		TargetTimeWidth:  p.TargetTimeWidth,
		TargetFreqHeight: p.TargetFreqHeight,
	}
}

// Sample draws one random Params from space. hop_kappa and hop_tau are
// clamped to min(sampled_max, 2*kappa) / min(sampled_max, 2*tau), exactly
// as the original search script does, so hops never exceed window
// diameter by construction in the search (though the core itself permits
// any positive hop). The original samples hop_kappa/hop_tau with
// numpy.random.randint(min, min(max, 2*k)), whose upper bound is
// exclusive, so when the 2*k clamp binds, the clamped max is shifted down
// by one before sampleRange's inclusive draw.
func Sample(space ParameterSpace, rng *rand.Rand) Params {
	kappa := sampleRange(rng, space.Kappa)
	tau := sampleRange(rng, space.Tau)

	hopKappaRange := space.HopKappa
	if m := 2 * kappa; m < hopKappaRange.Max {
		hopKappaRange.Max = m - 1
	}
	hopTauRange := space.HopTau
	if m := 2 * tau; m < hopTauRange.Max {
		hopTauRange.Max = m - 1
	}

	return Params{
		Kappa:            kappa,
		Tau:              tau,
		HopKappa:         sampleRange(rng, hopKappaRange),
		HopTau:           sampleRange(rng, hopTauRange),
		TargetTimeOffset: sampleRange(rng, space.TargetTimeOffset),
		TargetTimeWidth:  sampleRange(rng, space.TargetTimeWidth),
		TargetFreqHeight: sampleRange(rng, space.TargetFreqHeight),
	}
}

func sampleRange(rng *rand.Rand, r ParamRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Trial is one attempt's sampled params and the evaluator's resulting
// score.
type Trial struct {
	Params Params
	Score  float64
}

// Evaluator builds a fresh index over a corpus with the given params,
// runs identification over a query set, and returns a corpus-wide score
// (typically mean average precision from internal/eval). The concrete
// wiring — audio decode, index build, catalog persistence — belongs to
// the caller; this package only drives the sampling loop, the way the
// original script treats fingerprintBuilder/audioIdentification as
// external functions it merely calls.
type Evaluator func(ctx context.Context, p Params) (float64, error)

// Run performs attempts trials, sampling fresh parameters each time, and
// returns every trial plus the index of the best-scoring one. It stops
// and returns the error on the first failed evaluation, along with the
// trials completed so far.
func Run(ctx context.Context, space ParameterSpace, rng *rand.Rand, attempts int, evaluate Evaluator) ([]Trial, int, error) {
	trials := make([]Trial, 0, attempts)
	best := -1

	for n := 0; n < attempts; n++ {
		params := Sample(space, rng)
		score, err := evaluate(ctx, params)
		if err != nil {
			return trials, best, err
		}

		trials = append(trials, Trial{Params: params, Score: score})
		if best == -1 || score > trials[best].Score {
			best = len(trials) - 1
		}
	}
	return trials, best, nil
}
