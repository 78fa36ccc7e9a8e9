package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	conf := Default()
	assert.Equal(t, "sqlite", conf.Database.Type)
	assert.Equal(t, 0.4, conf.Rank.Threshold)
	assert.Equal(t, 10, conf.Scorer.BatchSize)
	assert.Equal(t, "comment_embeddings", conf.Cache.CommentTable)
}

func TestWriteAndParseRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")

	conf := Default()
	conf.Credentials = []string{"file-key"}
	conf.Search.TopK = 7
	conf.Chroma.URL = "http://localhost:8000"
	require.NoError(t, WriteConfig(path, conf))

	parsed, err := ParseConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"file-key"}, parsed.Credentials)
	assert.Equal(t, 7, parsed.Search.TopK)
	assert.Equal(t, "http://localhost:8000", parsed.Chroma.URL)
	assert.Equal(t, conf.Inference.BaseURL, parsed.Inference.BaseURL)
}

func TestParseMissingFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("credentials: [k1]\n"), 0644))

	parsed, err := ParseConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, parsed.Credentials)
	assert.Equal(t, 0.4, parsed.Rank.Threshold)
	assert.Equal(t, 3, parsed.Scorer.MaxRetries)
}

func TestParseConfigFromFileMissing(t *testing.T) {
	_, err := ParseConfigFromFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestCredentialPoolEnvOverridesFile(t *testing.T) {
	conf := Default()
	conf.Credentials = []string{"file-key"}

	t.Setenv(credpool.ENV_API_KEYS, "env-1,env-2")
	pool, err := conf.CredentialPool()
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Size())

	t.Setenv(credpool.ENV_API_KEYS, "")
	pool, err = conf.CredentialPool()
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Size())
}

func TestCredentialPoolEmptyIsError(t *testing.T) {
	t.Setenv(credpool.ENV_API_KEYS, "")
	conf := Default()
	_, err := conf.CredentialPool()
	assert.ErrorIs(t, err, credpool.ErrNoCredentials)
}
