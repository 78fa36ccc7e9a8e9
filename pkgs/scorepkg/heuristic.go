package scorepkg

import (
	"regexp"
	"unicode/utf8"
)

////////////////////////////////////////////////////////////////////////////////

var (
	digitRe = regexp.MustCompile(`\d`)
	termRe  = regexp.MustCompile(`[A-Za-z]{3,}|\p{Han}{3,}`)
)

// HeuristicConfig parameterizes the deterministic local score: length credit
// up to LengthCap (one point per LengthDivisor runes), plus one point each
// for containing a digit and a word token. Cap bounds the fallback score
// when no remote judgment is available. Comment and article call sites use
// different constants; neither is hardcoded.
type HeuristicConfig struct {
	LengthDivisor float64 `yaml:"length_divisor"`
	LengthCap     float64 `yaml:"length_cap"`
	Cap           float64 `yaml:"cap"`
}

// CommentHeuristic is the variant used for stock comments.
func CommentHeuristic() HeuristicConfig {
	return HeuristicConfig{LengthDivisor: 500, LengthCap: 3, Cap: 5}
}

// ArticleHeuristic is the variant used for long-form articles.
func ArticleHeuristic() HeuristicConfig {
	return HeuristicConfig{LengthDivisor: 1000, LengthCap: 2, Cap: 5}
}

////////////////////////////////////////////////////////////////////////////////

// Score computes the local heuristic score. It never fails and involves no
// remote call.
func (h HeuristicConfig) Score(text string) float64 {
	length := float64(utf8.RuneCountInString(text))

	score := length / h.LengthDivisor
	if score > h.LengthCap {
		score = h.LengthCap
	}
	if digitRe.MatchString(text) {
		score++
	}
	if termRe.MatchString(text) {
		score++
	}
	return score
}

// Capped returns the heuristic score bounded by Cap, the form used when the
// heuristic stands alone as a degraded result.
func (h HeuristicConfig) Capped(text string) float64 {
	score := h.Score(text)
	if score > h.Cap {
		return h.Cap
	}
	return score
}
