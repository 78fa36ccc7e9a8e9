package inferenceclient

import "regexp"

////////////////////////////////////////////////////////////////////////////////

// endpoint paths (OpenAI-compatible)
const (
	PATH_EMBEDDINGS       = "/embeddings"
	PATH_CHAT_COMPLETIONS = "/chat/completions"
)

// content limits applied before prompting, in runes
const (
	SINGLE_CONTENT_LIMIT = 1000
	BATCH_CONTENT_LIMIT  = 500
)

////////////////////////////////////////////////////////////////////////////////

// scoringCriteria is shared by the single and batch prompts.
const scoringCriteria = "You are a seasoned stock analyst. Rate the quality of the following stock " +
	"comments on a scale of 1-5.\n" +
	"Criteria:\n" +
	"1. Research depth: is there in-depth industry or company analysis\n" +
	"2. Information quality: does it contain valuable information or data\n" +
	"3. Logical clarity: is the analysis structured and clearly reasoned\n" +
	"4. Objectivity: is it fair and free of unfounded speculation\n" +
	"5. Investment relevance: is it useful for investment decisions\n"

const singlePromptSuffix = "Return a single number only, with no explanation or extra content.\n\n" +
	"Comment: "

const batchPromptSuffix = "Return one line per comment in exactly this format, with no extra " +
	"explanation:\n" +
	"Comment <id>: <score>\n\n"

////////////////////////////////////////////////////////////////////////////////

// The remote reply is free-form text; score extraction is pattern-based and
// must tolerate surrounding prose, fenced code blocks and trailing commentary.
var (
	firstNumberRe = regexp.MustCompile(`\d+\.?\d*`)
	batchScoreRe  = regexp.MustCompile(`(?i)comment\s*(\d+)\s*[:：]\s*(\d+\.?\d*)`)
)

// clampScore normalizes an extracted LLM score to the 1-5 range.
func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}

// truncateRunes limits a text to at most n runes.
func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
