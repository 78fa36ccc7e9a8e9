package enginepkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.json")
	data := `[
		{"username": "alice", "timestamp": "2026-01-01 10:00", "content": "first\ncomment"},
		{"username": "", "timestamp": "2026-01-01 10:01", "content": "no author"},
		{"username": "bob", "timestamp": "", "content": "no timestamp"},
		{"username": "carol", "timestamp": "2026-01-01 10:02", "content": ""},
		{"username": "dave", "timestamp": "2026-01-01 10:03", "content": "second comment"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	items, err := LoadArchive(path)
	require.NoError(t, err)
	require.Len(t, items, 2, "incomplete records are skipped")

	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "alice", items[0].Author)
	assert.Equal(t, "first comment", items[0].NormalizedContent)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, "dave", items[1].Author)
}

func TestLoadArchiveErrors(t *testing.T) {
	_, err := LoadArchive(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	_, err = LoadArchive(path)
	assert.Error(t, err)
}

func TestSearchKeyword(t *testing.T) {
	items := []*model.TextItem{
		{NormalizedContent: "Tesla delivery numbers look strong"},
		{NormalizedContent: "bank earnings miss expectations"},
		{NormalizedContent: "TESLA factory expansion announced"},
	}

	matched := SearchKeyword(items, "tesla")
	require.Len(t, matched, 2)

	assert.Len(t, SearchKeyword(items, "  "), 3, "blank keyword matches everything")
	assert.Empty(t, SearchKeyword(items, "crypto"))
}
