package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/database"
	"github.com/WangWilly/stockPulse/pkgs/credpool"
	"github.com/WangWilly/stockPulse/pkgs/rankpkg"
	"github.com/WangWilly/stockPulse/pkgs/scorepkg"
	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Credentials []string `yaml:"credentials"`

	Inference inferenceclient.Config `yaml:"inference"`
	Database  database.Config        `yaml:"database"`
	Rank      rankpkg.Config         `yaml:"rank"`
	Scorer    scorepkg.Config        `yaml:"scorer"`

	Cache  CacheConfig  `yaml:"cache"`
	Search SearchConfig `yaml:"search"`
	Chroma ChromaConfig `yaml:"chroma"`
}

////////////////////////////////////////////////////////////////////////////////

// CacheConfig names the embedding cache namespaces and the optional JSON
// snapshot fallback path
type CacheConfig struct {
	CommentTable string `yaml:"comment_table"`
	ArticleTable string `yaml:"article_table"`
	SnapshotPath string `yaml:"snapshot_path"`
}

// SearchConfig bounds the result sizes of search and scoring runs
type SearchConfig struct {
	TopK             int `yaml:"top_k"`
	TopN             int `yaml:"top_n"`
	TopPercentage    int `yaml:"top_percentage"`
	MinContributions int `yaml:"min_contributions"`
	TopAuthors       int `yaml:"top_authors"`
}

// ChromaConfig points at an optional Chroma server for comment export
type ChromaConfig struct {
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
}

////////////////////////////////////////////////////////////////////////////////

// Default returns a configuration with every tunable at its canonical value
func Default() *Config {
	return &Config{
		Inference: inferenceclient.DefaultConfig(),
		Database: database.Config{
			Type: database.DATABASE_TYPE_SQLITE,
			Path: "stockPulse.db",
		},
		Rank:   rankpkg.DefaultConfig(),
		Scorer: scorepkg.DefaultConfig(),
		Cache: CacheConfig{
			CommentTable: "comment_embeddings",
			ArticleTable: "article_embeddings",
		},
		Search: SearchConfig{
			TopK:             10,
			TopN:             20,
			TopPercentage:    0,
			MinContributions: scorepkg.MIN_AUTHOR_CONTRIBUTIONS,
			TopAuthors:       scorepkg.TOP_AUTHORS,
		},
	}
}

////////////////////////////////////////////////////////////////////////////////

// ParseConfigFromFile reads configuration from the specified path. Missing
// fields keep their defaults.
func ParseConfigFromFile(path string) (*Config, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	result := Default()
	err = yaml.Unmarshal(data, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// WriteConfig writes configuration to the specified path
func WriteConfig(path string, conf *Config) error {
	file, err := os.OpenFile(path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, bytes.NewReader(data))
	return err
}

////////////////////////////////////////////////////////////////////////////////
// Credential Management
////////////////////////////////////////////////////////////////////////////////

// CredentialPool builds the credential pool. The environment variable takes
// precedence over the config file so keys can be kept out of versioned files.
func (c *Config) CredentialPool() (*credpool.Pool, error) {
	if env := strings.TrimSpace(os.Getenv(credpool.ENV_API_KEYS)); env != "" {
		return credpool.FromEnv()
	}
	return credpool.New(c.Credentials)
}
