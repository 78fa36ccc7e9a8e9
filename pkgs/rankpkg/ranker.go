package rankpkg

import (
	"math"
	"sort"
)

////////////////////////////////////////////////////////////////////////////////

// Config controls the two-stage relevance filter: the absolute threshold
// guards against irrelevant matches in a small corpus, the fraction keeps
// results proportionate in a large one.
type Config struct {
	Threshold   float64 `yaml:"threshold"`
	TopFraction float64 `yaml:"top_fraction"`
}

// DefaultConfig returns the canonical filter settings. 0.4 is the one true
// relevance threshold; a stray 0.35 appeared in older notes but was never
// wired anywhere.
func DefaultConfig() Config {
	return Config{
		Threshold:   0.4,
		TopFraction: 0.3,
	}
}

// Candidate is a corpus position together with its query similarity.
type Candidate struct {
	Index      int
	Similarity float64
}

////////////////////////////////////////////////////////////////////////////////

// CosineSimilarity computes the normalized dot product of two equal-length
// vectors. Zero-norm input (e.g. a degraded zero vector) yields 0.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

////////////////////////////////////////////////////////////////////////////////

// Rank computes the similarity of every corpus vector to the query, filters
// to strictly above the threshold and returns the top ceil(fraction*n)
// survivors (at least one) in descending similarity order. An empty result is
// a valid terminal state, not an error.
func Rank(query []float64, corpus [][]float64, cfg Config) []Candidate {
	candidates := make([]Candidate, 0, len(corpus))
	for i, vector := range corpus {
		sim := CosineSimilarity(query, vector)
		if sim > cfg.Threshold {
			candidates = append(candidates, Candidate{Index: i, Similarity: sim})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	keep := int(math.Ceil(cfg.TopFraction * float64(len(candidates))))
	if keep < 1 {
		keep = 1
	}
	if keep > len(candidates) {
		keep = len(candidates)
	}
	return candidates[:keep]
}
