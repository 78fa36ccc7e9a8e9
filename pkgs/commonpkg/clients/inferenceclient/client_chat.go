package inferenceclient

import (
	"context"
	"time"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// complete issues a chat/completion request and returns the raw reply text.
func (c *Client) complete(ctx context.Context, cred credpool.Credential, prompt string, timeout time.Duration) (string, bool) {
	logger := log.WithFields(log.Fields{
		"caller":     "Client.complete",
		"credential": cred.Masked(),
	})

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.restyClient.R().
		SetContext(callCtx).
		SetAuthToken(string(cred)).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": c.config.ChatModel,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": c.config.Temperature,
		}).
		Post(c.config.BaseURL + PATH_CHAT_COMPLETIONS)
	if err != nil {
		logger.WithError(err).Debug("chat request failed")
		return "", false
	}
	if !resp.IsSuccess() {
		logger.WithField("status", resp.StatusCode()).Debug("chat request rejected")
		return "", false
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content")
	if !content.Exists() {
		logger.Debug("malformed chat response")
		return "", false
	}
	return content.String(), true
}
