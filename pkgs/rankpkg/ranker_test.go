package rankpkg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 1}, []float64{0, 0}))
}

// The threshold is exclusive: exactly-at-threshold items are dropped.
func TestRankThresholdIsStrict(t *testing.T) {
	query := []float64{1, 0}
	corpus := [][]float64{
		{0.4, sqrtComplement(0.4)}, // cosine exactly 0.4
		{1, 0},                     // cosine 1.0
	}

	got := Rank(query, corpus, Config{Threshold: 0.4, TopFraction: 1.0})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)
}

func TestRankKeepsTopFraction(t *testing.T) {
	query := []float64{1, 0}
	corpus := make([][]float64, 10)
	for i := range corpus {
		// cosines 0.90, 0.89, ... all above threshold
		c := 0.90 - float64(i)*0.01
		corpus[i] = []float64{c, sqrtComplement(c)}
	}

	got := Rank(query, corpus, Config{Threshold: 0.4, TopFraction: 0.3})
	require.Len(t, got, 3) // ceil(0.3*10)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, 2, got[2].Index)
	assert.Greater(t, got[0].Similarity, got[1].Similarity)
}

func TestRankKeepsAtLeastOneSurvivor(t *testing.T) {
	query := []float64{1, 0}
	corpus := [][]float64{{0.9, sqrtComplement(0.9)}}

	got := Rank(query, corpus, Config{Threshold: 0.4, TopFraction: 0.3})
	require.Len(t, got, 1)
}

func TestRankNoSurvivors(t *testing.T) {
	query := []float64{1, 0}
	corpus := [][]float64{{0, 1}, {0, 0}}

	got := Rank(query, corpus, Config{Threshold: 0.4, TopFraction: 0.3})
	assert.Nil(t, got)
}

// sqrtComplement returns y such that the unit vector (c, y) has cosine c
// against (1, 0).
func sqrtComplement(c float64) float64 {
	return math.Sqrt(1 - c*c)
}
