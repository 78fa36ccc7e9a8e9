package enginepkg

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// LoadArchive reads a scraper archive (a JSON array of raw records) into
// corpus items. Records missing any of username, timestamp or content are
// skipped silently; they carry nothing scoreable. IDs are positional,
// starting at 1.
func LoadArchive(path string) ([]*model.TextItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	var raws []model.RawItem
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse archive: %w", err)
	}

	items := make([]*model.TextItem, 0, len(raws))
	for _, raw := range raws {
		if raw.Username == "" || raw.Timestamp == "" || raw.Content == "" {
			continue
		}
		items = append(items, model.NewTextItem(len(items)+1, raw))
	}

	log.WithFields(log.Fields{
		"caller":  "LoadArchive",
		"path":    path,
		"records": len(raws),
		"loaded":  len(items),
	}).Info("archive loaded")
	return items, nil
}

////////////////////////////////////////////////////////////////////////////////

// SearchKeyword filters the corpus to items whose normalized content contains
// the keyword, case-insensitively. A cheap pre-filter with no remote calls.
func SearchKeyword(items []*model.TextItem, keyword string) []*model.TextItem {
	keyword = strings.ToLower(model.NormalizeContent(keyword))
	if keyword == "" {
		return items
	}

	var matched []*model.TextItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.NormalizedContent), keyword) {
			matched = append(matched, item)
		}
	}
	return matched
}
