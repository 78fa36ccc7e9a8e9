package inferenceclient

import (
	"context"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Embed requests an embedding vector for the given text. The returned
// vector's length is whatever the remote model produced; callers that need a
// fixed dimension must reshape it themselves.
func (c *Client) Embed(ctx context.Context, cred credpool.Credential, text string) ([]float64, bool) {
	logger := log.WithFields(log.Fields{
		"caller":     "Client.Embed",
		"credential": cred.Masked(),
	})

	callCtx, cancel := context.WithTimeout(ctx, c.config.EmbedTimeout)
	defer cancel()

	resp, err := c.restyClient.R().
		SetContext(callCtx).
		SetAuthToken(string(cred)).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": c.config.EmbeddingModel,
			"input": text,
		}).
		Post(c.config.BaseURL + PATH_EMBEDDINGS)
	if err != nil {
		logger.WithError(err).Debug("embedding request failed")
		return nil, false
	}
	if !resp.IsSuccess() {
		logger.WithField("status", resp.StatusCode()).Debug("embedding request rejected")
		return nil, false
	}

	raw := gjson.GetBytes(resp.Body(), "data.0.embedding")
	if !raw.Exists() || !raw.IsArray() {
		logger.Debug("malformed embedding response")
		return nil, false
	}

	values := raw.Array()
	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = v.Float()
	}
	return vector, true
}
