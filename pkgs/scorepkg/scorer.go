package scorepkg

import (
	"context"
	"time"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/WangWilly/stockPulse/pkgs/workers"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// Config controls the blend of local and remote scores and the retry ladder.
type Config struct {
	LocalWeight  float64       `yaml:"local_weight"`
	RemoteWeight float64       `yaml:"remote_weight"`
	BatchSize    int           `yaml:"batch_size"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
}

// DefaultConfig matches the observed deployment: local 40%, remote 60%,
// batches of 10, three attempts two seconds apart (batch retries wait twice
// as long).
func DefaultConfig() Config {
	return Config{
		LocalWeight:  0.4,
		RemoteWeight: 0.6,
		BatchSize:    10,
		MaxRetries:   3,
		RetryDelay:   2 * time.Second,
	}
}

// Result is one item's quality score on the 0-5 scale. Degraded means the
// remote judgment was unobtainable and the heuristic stands alone; it is
// still a valid result, not an error.
type Result struct {
	Score    float64
	Degraded bool
}

////////////////////////////////////////////////////////////////////////////////

// Scorer assigns each item a quality score blending the local heuristic with
// an LLM judgment, obtained per-item or in batches.
type Scorer struct {
	client    *inferenceclient.Client
	heuristic HeuristicConfig
	config    Config
}

// New creates a scorer.
func New(client *inferenceclient.Client, heuristic HeuristicConfig, config Config) *Scorer {
	return &Scorer{
		client:    client,
		heuristic: heuristic,
		config:    config,
	}
}

// combine blends a heuristic score and a 1-5 remote score, re-expressed on
// the 0-5 scale. The formula is fixed: local weighted 40%, remote 60%.
func (s *Scorer) combine(base, remote float64) float64 {
	return (base/s.heuristic.Cap*s.config.LocalWeight + remote/5*s.config.RemoteWeight) * s.heuristic.Cap
}

////////////////////////////////////////////////////////////////////////////////

// ScoreSingle scores one item with the given credential. Remote failure
// degrades to the capped heuristic after the retry budget is spent.
func (s *Scorer) ScoreSingle(ctx context.Context, cred credpool.Credential, item *model.TextItem) Result {
	base := s.heuristic.Score(item.NormalizedContent)

	remote, ok := workers.RetryFixedDelay(ctx, func() (float64, bool) {
		return s.client.ScoreSingle(ctx, cred, item.NormalizedContent)
	}, s.config.MaxRetries, s.config.RetryDelay)
	if !ok {
		return Result{Score: s.heuristic.Capped(item.NormalizedContent), Degraded: true}
	}

	return Result{Score: s.combine(base, remote)}
}

// ScoreBatch scores a batch of items in one remote call. The ladder: retry
// the whole batch while the reply is missing or incomplete, then keep
// whatever positions the best reply yielded and score the unmatched items
// individually, which itself degrades to the heuristic. Every input item gets
// a result; none are dropped.
func (s *Scorer) ScoreBatch(ctx context.Context, cred credpool.Credential, items []*model.TextItem) []Result {
	logger := log.WithFields(log.Fields{
		"caller":     "Scorer.ScoreBatch",
		"batchSize":  len(items),
		"credential": cred.Masked(),
	})

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.NormalizedContent
	}

	var best inferenceclient.BatchParse
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		parse, ok := s.client.ScoreBatch(ctx, cred, texts)
		if ok {
			if len(parse.Scores) > len(best.Scores) {
				best = parse
			}
			if parse.Complete(len(items)) {
				break
			}
			logger.WithFields(log.Fields{
				"attempt": attempt + 1,
				"parsed":  len(parse.Scores),
			}).Warn("incomplete batch reply")
		}
		if attempt == s.config.MaxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			attempt = s.config.MaxRetries // spend the budget, fall through to fallback
		case <-time.After(2 * s.config.RetryDelay):
		}
	}

	results := make([]Result, len(items))
	for i, item := range items {
		if remote, ok := best.Scores[i+1]; ok {
			results[i] = Result{Score: s.combine(s.heuristic.Score(item.NormalizedContent), remote)}
			continue
		}
		// Unmatched after all retries: per-item fallback.
		results[i] = s.ScoreSingle(ctx, cred, item)
	}
	return results
}

////////////////////////////////////////////////////////////////////////////////

// ScoreAll scores the whole corpus across min(credentials, tasks) workers.
// Items are batched when the corpus is at least one batch long, otherwise
// scored per item. Results keep the corpus order.
func (s *Scorer) ScoreAll(ctx context.Context, pool *credpool.Pool, items []*model.TextItem) []Result {
	if len(items) == 0 {
		return nil
	}

	if len(items) >= s.config.BatchSize {
		batches := workers.Chunk(items, s.config.BatchSize)
		dispatcher := workers.NewDispatcher[[]*model.TextItem, []Result](pool)
		perBatch, stats := dispatcher.Run(ctx, batches, func(ctx context.Context, cred credpool.Credential, batch []*model.TextItem) []Result {
			return s.ScoreBatch(ctx, cred, batch)
		})
		log.WithFields(log.Fields{
			"caller":   "Scorer.ScoreAll",
			"jobID":    stats.JobID,
			"items":    len(items),
			"batches":  len(batches),
			"duration": stats.Duration,
		}).Info("batch scoring completed")

		results := make([]Result, 0, len(items))
		for _, batch := range perBatch {
			results = append(results, batch...)
		}
		return results
	}

	dispatcher := workers.NewDispatcher[*model.TextItem, Result](pool)
	results, stats := dispatcher.Run(ctx, items, func(ctx context.Context, cred credpool.Credential, item *model.TextItem) Result {
		return s.ScoreSingle(ctx, cred, item)
	})
	log.WithFields(log.Fields{
		"caller":   "Scorer.ScoreAll",
		"jobID":    stats.JobID,
		"items":    len(items),
		"duration": stats.Duration,
	}).Info("scoring completed")
	return results
}
