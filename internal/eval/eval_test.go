package eval_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-hayes/audio-fingerprinter/internal/eval"
)

func TestParseRanking_DerivesGroundTruthFromStem(t *testing.T) {
	input := "track1-snippet.wav\ttrack1.wav\ttrack2.wav\ttrack3.wav\n" +
		"track2-loud.wav\ttrack5.wav\n" +
		"track3-clip.wav\n"

	judgments, err := eval.ParseRanking(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, judgments, 3)

	assert.Equal(t, "track1", judgments[0].Truth)
	assert.Equal(t, []string{"track1.wav", "track2.wav", "track3.wav"}, judgments[0].Guesses)

	assert.Equal(t, "track2", judgments[1].Truth)
	assert.Equal(t, []string{"track5.wav"}, judgments[1].Guesses)

	assert.Equal(t, "track3", judgments[2].Truth)
	assert.Empty(t, judgments[2].Guesses)
}

func TestRelevances_MarksContainmentNotEquality(t *testing.T) {
	judgments := []eval.Judgment{
		{Truth: "track1", Guesses: []string{"track1.wav", "track2.wav", "track3.wav"}},
		{Truth: "track2", Guesses: []string{"track5.wav"}},
	}

	rel := eval.Relevances(judgments)
	require.Len(t, rel, 2)
	assert.Equal(t, []int{1, 0, 0}, rel[0])
	assert.Equal(t, []int{0, 0, 0}, rel[1])
}

func TestPrecisionRecallFMeasure_PerfectTop1(t *testing.T) {
	relevances := [][]int{{1, 0, 0}}

	assert.Equal(t, []float64{1.0}, eval.Precision(1, relevances))
	assert.Equal(t, []float64{1.0}, eval.Recall(1, relevances, 1))
	f := eval.FMeasure(1, relevances, 1)
	assert.InDelta(t, 1.0, f[0], 1e-9)
}

func TestPrecision_DropsAsRankGrows(t *testing.T) {
	relevances := [][]int{{1, 0, 0}}
	assert.InDelta(t, 1.0/3.0, eval.Precision(3, relevances)[0], 1e-9)
}

func TestFMeasure_ZeroDenominatorIsZero(t *testing.T) {
	relevances := [][]int{{0, 0, 0}}
	f := eval.FMeasure(1, relevances, 0)
	assert.Equal(t, 0.0, f[0])
}

func TestAvgPrecision_NoRelevantGuessesIsZero(t *testing.T) {
	relevances := [][]int{{0, 0, 0}}
	ap := eval.AvgPrecision(relevances, 1)
	assert.Equal(t, 0.0, ap[0])
}

func TestAvgPrecision_RelevantAtTopScoresHigherThanRelevantAtBottom(t *testing.T) {
	top := eval.AvgPrecision([][]int{{1, 0, 0}}, 1)
	bottom := eval.AvgPrecision([][]int{{0, 0, 1}}, 1)
	assert.Greater(t, top[0], bottom[0])
}

func TestMeanAvgPrecision_AveragesAcrossQueries(t *testing.T) {
	relevances := [][]int{
		{1, 0, 0},
		{0, 0, 0},
	}
	map_ := eval.MeanAvgPrecision(relevances, 1)
	assert.InDelta(t, 0.5, map_, 1e-9)
}

func TestMeanAvgPrecision_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, eval.MeanAvgPrecision(nil, 1))
}
