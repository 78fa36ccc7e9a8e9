package inferenceclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

////////////////////////////////////////////////////////////////////////////////

// Config holds the remote service endpoint and model settings.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	EmbeddingModel string        `yaml:"embedding_model"`
	ChatModel      string        `yaml:"chat_model"`
	Temperature    float64       `yaml:"temperature"`
	EmbedTimeout   time.Duration `yaml:"embed_timeout"`
	SingleTimeout  time.Duration `yaml:"single_timeout"`
	BatchTimeout   time.Duration `yaml:"batch_timeout"`
}

// DefaultConfig returns settings matching the observed deployment: an
// OpenAI-compatible endpoint with a 1536-dim embedding model. Batch calls get
// a longer timeout than single calls.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://dashscope.aliyuncs.com/compatible-mode/v1",
		EmbeddingModel: "text-embedding-v4",
		ChatModel:      "qwen-plus",
		Temperature:    0.1,
		EmbedTimeout:   30 * time.Second,
		SingleTimeout:  60 * time.Second,
		BatchTimeout:   120 * time.Second,
	}
}

////////////////////////////////////////////////////////////////////////////////

// Client is a stateless wrapper around the remote embedding/chat service.
// Every operation takes the credential to present explicitly; the client
// itself holds no credential state, so one client instance is safely shared
// by all workers of a job.
//
// All operations follow a non-throwing contract: on any failure (network,
// auth, malformed response) they return ok=false and the caller decides the
// fallback.
type Client struct {
	restyClient *resty.Client
	config      Config
}

// New creates a client for the configured endpoint.
func New(config Config) *Client {
	return &Client{
		restyClient: resty.New(),
		config:      config,
	}
}
