package chromacommentclient

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
)

const (
	DEFAULT_COLLECTION_NAME = "stock-comments"
)

type ChromaCommentClient struct {
	client     chroma.Client
	collection chroma.Collection
}

// New creates a new Chroma client for comment export and lookup
func New(chromaURL, collectionName string) (*ChromaCommentClient, error) {
	if collectionName == "" {
		collectionName = DEFAULT_COLLECTION_NAME
	}

	// Create HTTP client
	client, err := chroma.NewHTTPClient(
		chroma.WithBaseURL(chromaURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	// Get or create collection for comments
	collection, err := client.GetOrCreateCollection(
		context.Background(),
		collectionName,
		chroma.WithCollectionMetadataCreate(
			chroma.NewMetadata(
				chroma.NewStringAttribute("description", "Stock comment collection for semantic search"),
				chroma.NewStringAttribute("type", "comments"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}

	return &ChromaCommentClient{
		client:     client,
		collection: collection,
	}, nil
}

// Close closes the Chroma client
func (c *ChromaCommentClient) Close() error {
	return c.client.Close()
}

////////////////////////////////////////////////////////////////////////////////

// GetCollectionCount returns the number of comments in the collection
func (c *ChromaCommentClient) GetCollectionCount(ctx context.Context) (int, error) {
	count, err := c.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection count: %w", err)
	}

	return count, nil
}
