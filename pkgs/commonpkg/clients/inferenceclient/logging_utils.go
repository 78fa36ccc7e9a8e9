package inferenceclient

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// SetInferenceClientLogger redirects the underlying HTTP client's logs to the
// given writer.
func SetInferenceClientLogger(client *Client, out io.Writer) {
	logger := log.New()
	logger.SetLevel(log.InfoLevel)
	logger.SetOutput(out)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		DisableQuote:  true,
	})
	client.restyClient.SetLogger(logger)
}
