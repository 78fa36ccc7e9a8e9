package inferenceclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// BatchParse is the tagged result of parsing a batch-scoring reply. Scores
// maps the 1-based position of each text in the request to its clamped score;
// positions missing from the map could not be parsed. Raw keeps the full
// reply for diagnostics.
type BatchParse struct {
	Scores map[int]float64
	Raw    string
}

// Complete reports whether every requested position got a score.
func (p BatchParse) Complete(n int) bool {
	return len(p.Scores) == n
}

////////////////////////////////////////////////////////////////////////////////

// ScoreBatch serializes the given texts into one prompt requesting one score
// line per text in input order, tagged by 1-based position. ok=false means
// the call itself failed; a successful call may still yield a partial or
// empty Scores map, which the caller handles via its retry/fallback ladder.
func (c *Client) ScoreBatch(ctx context.Context, cred credpool.Credential, texts []string) (BatchParse, bool) {
	var sb strings.Builder
	sb.WriteString(scoringCriteria)
	sb.WriteString(batchPromptSuffix)
	for i, text := range texts {
		sb.WriteString(fmt.Sprintf("Comment %d: %s\n", i+1, truncateRunes(text, BATCH_CONTENT_LIMIT)))
	}

	reply, ok := c.complete(ctx, cred, sb.String(), c.config.BatchTimeout)
	if !ok {
		return BatchParse{}, false
	}

	parsed := parseBatchReply(reply)
	if !parsed.Complete(len(texts)) {
		log.WithFields(log.Fields{
			"caller":    "Client.ScoreBatch",
			"requested": len(texts),
			"parsed":    len(parsed.Scores),
		}).Debug("batch reply parsed partially")
	}
	return parsed, true
}

// parseBatchReply extracts position->score pairs from a free-form reply.
func parseBatchReply(reply string) BatchParse {
	scores := make(map[int]float64)
	for _, match := range batchScoreRe.FindAllStringSubmatch(reply, -1) {
		idx, err := strconv.Atoi(match[1])
		if err != nil || idx < 1 {
			continue
		}
		score, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		scores[idx] = clampScore(score)
	}
	return BatchParse{Scores: scores, Raw: reply}
}
