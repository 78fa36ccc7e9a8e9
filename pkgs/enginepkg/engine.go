package enginepkg

import (
	"context"
	"errors"
	"sort"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/WangWilly/stockPulse/pkgs/embedpkg"
	"github.com/WangWilly/stockPulse/pkgs/rankpkg"
	"github.com/WangWilly/stockPulse/pkgs/scorepkg"
	"github.com/WangWilly/stockPulse/pkgs/workers"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

const (
	// SIMILARITY_WEIGHT and QUALITY_WEIGHT blend relevance and quality into
	// the final search score. They are fixed, not configurable.
	SIMILARITY_WEIGHT = 0.5
	QUALITY_WEIGHT    = 0.5
)

// ErrQueryEmbedding means the query itself could not be embedded, so there is
// nothing to rank against.
var ErrQueryEmbedding = errors.New("failed to embed the query text")

////////////////////////////////////////////////////////////////////////////////

// Engine wires the credential pool, the inference client, the embedding store
// and the quality scorer into the two top-level operations: semantic search
// and corpus-wide quality ranking. A started job always runs to completion;
// individual failures degrade items, never abort the run.
type Engine struct {
	pool      *credpool.Pool
	client    *inferenceclient.Client
	store     *embedpkg.Store
	scorer    *scorepkg.Scorer
	rankCfg   rankpkg.Config
	scorerCfg scorepkg.Config
}

// New creates an engine. The pool must be non-empty; constructing the pool is
// where a missing-credential configuration fails.
func New(
	pool *credpool.Pool,
	client *inferenceclient.Client,
	store *embedpkg.Store,
	scorer *scorepkg.Scorer,
	rankCfg rankpkg.Config,
	scorerCfg scorepkg.Config,
) *Engine {
	return &Engine{
		pool:      pool,
		client:    client,
		store:     store,
		scorer:    scorer,
		rankCfg:   rankCfg,
		scorerCfg: scorerCfg,
	}
}

////////////////////////////////////////////////////////////////////////////////

// Rank scores the corpus against a free-text query: embed everything, filter
// by cosine similarity, quality-score the survivors and blend. Returns at
// most topK items, best first. An empty result means nothing cleared the
// relevance threshold, which is a valid answer.
func (e *Engine) Rank(ctx context.Context, corpus []*model.TextItem, query string, topK int) ([]*model.ScoredItem, error) {
	logger := log.WithFields(log.Fields{
		"caller": "Engine.Rank",
		"corpus": len(corpus),
	})
	if len(corpus) == 0 {
		return nil, nil
	}

	normalizedQuery := model.NormalizeContent(query)

	// The query embedding is a prerequisite: without it there is nothing to
	// compare against, so failure here aborts the search.
	queryVector, ok := e.store.GetOrCompute(ctx, normalizedQuery, func(ctx context.Context, text string) ([]float64, bool) {
		return workers.RetryFixedDelay(ctx, func() ([]float64, bool) {
			return e.client.Embed(ctx, e.pool.First(), text)
		}, e.scorerCfg.MaxRetries, e.scorerCfg.RetryDelay)
	})
	if !ok {
		return nil, ErrQueryEmbedding
	}

	texts := make([]string, len(corpus))
	for i, item := range corpus {
		texts[i] = item.NormalizedContent
	}
	fillStats := embedpkg.FillMisses(ctx, e.store, texts, e.pool, e.client, e.scorerCfg.MaxRetries, e.scorerCfg.RetryDelay)
	logger.WithFields(log.Fields{
		"misses": fillStats.Misses,
		"failed": fillStats.Failed,
	}).Info("embedding cache filled")

	// Items whose embedding failed sit at zero vectors: cosine 0, filtered
	// out by the threshold.
	vectors := make([][]float64, len(corpus))
	for i, text := range texts {
		if vector, ok := e.store.Lookup(text); ok {
			vectors[i] = vector
		} else {
			vectors[i] = embedpkg.Zero(e.store.Dimension())
		}
	}

	candidates := rankpkg.Rank(queryVector, vectors, e.rankCfg)
	if len(candidates) == 0 {
		logger.Info("no items cleared the relevance threshold")
		return nil, nil
	}

	survivors := make([]*model.TextItem, len(candidates))
	for i, cand := range candidates {
		survivors[i] = corpus[cand.Index]
	}
	qualities := e.scorer.ScoreAll(ctx, e.pool, survivors)

	scored := make([]*model.ScoredItem, len(candidates))
	for i, cand := range candidates {
		scored[i] = &model.ScoredItem{
			Item:       survivors[i],
			Similarity: cand.Similarity,
			Quality:    qualities[i].Score,
			Combined:   cand.Similarity*SIMILARITY_WEIGHT + qualities[i].Score*QUALITY_WEIGHT,
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Combined > scored[j].Combined
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

////////////////////////////////////////////////////////////////////////////////

// ScoreAndRank quality-scores the whole corpus (no query) and returns every
// item ranked best first, plus the author rollup. topN and topPercentage
// bound the returned comments: topN wins when both are set, percentage keeps
// max(1, n*pct/100) items, zero for both returns everything.
func (e *Engine) ScoreAndRank(
	ctx context.Context,
	corpus []*model.TextItem,
	topN, topPercentage, minContributions, topAuthors int,
) ([]*model.RankedComment, []model.AuthorScore, error) {
	if len(corpus) == 0 {
		return nil, nil, nil
	}

	results := e.scorer.ScoreAll(ctx, e.pool, corpus)
	authors := scorepkg.AggregateAuthors(corpus, results, minContributions, topAuthors)

	ranked := make([]*model.RankedComment, len(corpus))
	for i, item := range corpus {
		ranked[i] = &model.RankedComment{
			Item:     item,
			Score:    results[i].Score,
			Degraded: results[i].Degraded,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	keep := len(ranked)
	switch {
	case topN > 0:
		keep = topN
	case topPercentage > 0:
		keep = len(ranked) * topPercentage / 100
		if keep < 1 {
			keep = 1
		}
	}
	if keep < len(ranked) {
		ranked = ranked[:keep]
	}

	log.WithFields(log.Fields{
		"caller":  "Engine.ScoreAndRank",
		"corpus":  len(corpus),
		"kept":    len(ranked),
		"authors": len(authors),
	}).Info("corpus scored")
	return ranked, authors, nil
}
