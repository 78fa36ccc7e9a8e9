package inferenceclient

import (
	"context"
	"strconv"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	log "github.com/sirupsen/logrus"
)

// ScoreSingle asks the model for a 1-5 quality judgment of one text. The
// score is the first numeric token of the reply, clamped to [1,5].
func (c *Client) ScoreSingle(ctx context.Context, cred credpool.Credential, text string) (float64, bool) {
	prompt := scoringCriteria + singlePromptSuffix + truncateRunes(text, SINGLE_CONTENT_LIMIT)

	reply, ok := c.complete(ctx, cred, prompt, c.config.SingleTimeout)
	if !ok {
		return 0, false
	}

	match := firstNumberRe.FindString(reply)
	if match == "" {
		log.WithFields(log.Fields{
			"caller": "Client.ScoreSingle",
			"reply":  reply,
		}).Warn("no numeric score in reply")
		return 0, false
	}

	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return clampScore(score), true
}
