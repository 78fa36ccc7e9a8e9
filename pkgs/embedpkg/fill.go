package embedpkg

import (
	"context"
	"time"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/WangWilly/stockPulse/pkgs/workers"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// FillStats summarizes a parallel cache fill.
type FillStats struct {
	Requested int
	Misses    int
	Failed    int
}

////////////////////////////////////////////////////////////////////////////////

// FillMisses computes embeddings for every text that misses the store's
// cache, spreading the work across min(credentials, misses) workers with one
// credential bound to each. Failed texts stay uncached (recomputed next run)
// and are counted, not raised; downstream code sees zero vectors for them.
func FillMisses(
	ctx context.Context,
	store *Store,
	texts []string,
	pool *credpool.Pool,
	client *inferenceclient.Client,
	maxRetries int,
	retryDelay time.Duration,
) FillStats {
	misses := store.Misses(texts)
	stats := FillStats{Requested: len(texts), Misses: len(misses)}
	if len(misses) == 0 {
		return stats
	}

	log.WithFields(log.Fields{
		"caller": "FillMisses",
		"misses": len(misses),
	}).Info("computing embeddings for cache misses")

	dispatcher := workers.NewDispatcher[string, bool](pool)
	oks, _ := dispatcher.Run(ctx, misses, func(ctx context.Context, cred credpool.Credential, text string) bool {
		_, ok := store.GetOrCompute(ctx, text, func(ctx context.Context, text string) ([]float64, bool) {
			return workers.RetryFixedDelay(ctx, func() ([]float64, bool) {
				return client.Embed(ctx, cred, text)
			}, maxRetries, retryDelay)
		})
		return ok
	})

	for _, ok := range oks {
		if !ok {
			stats.Failed++
		}
	}
	if stats.Failed > 0 {
		log.WithFields(log.Fields{
			"caller": "FillMisses",
			"failed": stats.Failed,
		}).Warn("some embeddings could not be computed")
	}
	return stats
}
