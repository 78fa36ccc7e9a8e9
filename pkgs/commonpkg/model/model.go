package model

import (
	"regexp"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////

// TextItem is a single piece of scraped content (a stock comment or an
// article). NormalizedContent is derived once from RawContent and is used as
// the embedding-cache key.
type TextItem struct {
	ID                int
	Author            string
	PublishTime       string
	RawContent        string
	NormalizedContent string
}

// ScoredItem is a TextItem with the scores attached by the engine.
// Combined = Similarity*0.5 + Quality*0.5, with Quality kept on its raw 0-5
// scale, so quality dominates the blend whenever anything is relevant at all.
type ScoredItem struct {
	Item       *TextItem `json:"item"`
	Similarity float64   `json:"similarity_score"`
	Quality    float64   `json:"quality_score"`
	Combined   float64   `json:"combined_score"`
}

// RankedComment is the quality-only scoring output (no query involved).
// Degraded marks results produced by the heuristic fallback rather than the
// remote judgment.
type RankedComment struct {
	Item     *TextItem `json:"item"`
	Score    float64   `json:"score"`
	Degraded bool      `json:"degraded"`
}

// AuthorScore is a per-author quality rollup.
type AuthorScore struct {
	Author     string  `json:"author"`
	AvgQuality float64 `json:"avg_quality"`
	Count      int     `json:"count"`
}

////////////////////////////////////////////////////////////////////////////////

// RawItem is the shape produced by the scraper's archive files.
type RawItem struct {
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

////////////////////////////////////////////////////////////////////////////////

var (
	newlineRe    = regexp.MustCompile(`[\r\n]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeContent collapses runs of whitespace to single spaces and flattens
// newlines, producing the canonical cache-key form of a text.
func NormalizeContent(text string) string {
	if text == "" {
		return ""
	}
	text = newlineRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NewTextItem builds a TextItem from a raw archive record. The normalized
// content is computed here, once.
func NewTextItem(id int, raw RawItem) *TextItem {
	return &TextItem{
		ID:                id,
		Author:            raw.Username,
		PublishTime:       raw.Timestamp,
		RawContent:        raw.Content,
		NormalizedContent: NormalizeContent(raw.Content),
	}
}
