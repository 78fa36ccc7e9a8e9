package scorepkg

import (
	"sort"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
)

////////////////////////////////////////////////////////////////////////////////

const (
	// MIN_AUTHOR_CONTRIBUTIONS excludes one-off posters from the ranking.
	MIN_AUTHOR_CONTRIBUTIONS = 2
	// TOP_AUTHORS caps the leaderboard length.
	TOP_AUTHORS = 15
)

////////////////////////////////////////////////////////////////////////////////

// AggregateAuthors ranks authors by the mean quality of their contributions.
// Authors with fewer than minContributions scored items are excluded, and at
// most topN authors are returned, highest average first. Ties break on author
// name so the order is deterministic.
func AggregateAuthors(items []*model.TextItem, results []Result, minContributions, topN int) []model.AuthorScore {
	type bucket struct {
		total float64
		count int
	}
	byAuthor := make(map[string]*bucket)
	for i, item := range items {
		if item.Author == "" {
			continue
		}
		b, ok := byAuthor[item.Author]
		if !ok {
			b = &bucket{}
			byAuthor[item.Author] = b
		}
		b.total += results[i].Score
		b.count++
	}

	scores := make([]model.AuthorScore, 0, len(byAuthor))
	for author, b := range byAuthor {
		if b.count < minContributions {
			continue
		}
		scores = append(scores, model.AuthorScore{
			Author:     author,
			AvgQuality: b.total / float64(b.count),
			Count:      b.count,
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].AvgQuality != scores[j].AvgQuality {
			return scores[i].AvgQuality > scores[j].AvgQuality
		}
		return scores[i].Author < scores[j].Author
	})

	if topN > 0 && len(scores) > topN {
		scores = scores[:topN]
	}
	return scores
}
