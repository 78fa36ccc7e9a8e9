package chromacommentclient

import (
	"context"
	"fmt"

	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/google/uuid"
)

// AddComment adds a single comment to the Chroma collection
func (c *ChromaCommentClient) AddComment(ctx context.Context, item *model.TextItem) (string, error) {
	docID := uuid.New().String()

	err := c.collection.Add(ctx,
		chroma.WithIDs(chroma.DocumentID(docID)),
		chroma.WithTexts(item.NormalizedContent),
		chroma.WithMetadatas(c.createCommentMeta(item)),
	)
	if err != nil {
		return "", fmt.Errorf("failed to add comment to chroma: %w", err)
	}

	return docID, nil
}

// BatchAddComments adds a batch of comments to the Chroma collection
func (c *ChromaCommentClient) BatchAddComments(ctx context.Context, items []*model.TextItem) ([]string, error) {
	var docIDs []chroma.DocumentID
	var docTexts []string
	var metadatas []chroma.DocumentMetadata

	for _, item := range items {
		docIDs = append(docIDs, chroma.DocumentID(uuid.New().String()))
		docTexts = append(docTexts, item.NormalizedContent)
		metadatas = append(metadatas, c.createCommentMeta(item))
	}

	err := c.collection.Add(ctx,
		chroma.WithIDs(docIDs...),
		chroma.WithTexts(docTexts...),
		chroma.WithMetadatas(metadatas...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add comments to chroma: %w", err)
	}

	var ids []string
	for _, id := range docIDs {
		ids = append(ids, string(id))
	}
	return ids, nil
}

// QueryComments searches the collection using Chroma's semantic search
func (c *ChromaCommentClient) QueryComments(ctx context.Context, query string, limit int) (chroma.QueryResult, error) {
	results, err := c.collection.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(limit),
		chroma.WithIncludeQuery(chroma.IncludeMetadatas, chroma.IncludeDocuments),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search comments: %w", err)
	}

	return results, nil
}

// DeleteComment removes a comment from the Chroma collection
func (c *ChromaCommentClient) DeleteComment(ctx context.Context, docID string) error {
	err := c.collection.Delete(ctx,
		chroma.WithIDsDelete(chroma.DocumentID(docID)),
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

////////////////////////////////////////////////////////////////////////////////

func (c *ChromaCommentClient) createCommentMeta(item *model.TextItem) chroma.DocumentMetadata {
	return chroma.NewDocumentMetadata(
		chroma.NewIntAttribute("item_id", int64(item.ID)),
		chroma.NewStringAttribute("author", item.Author),
		chroma.NewStringAttribute("publish_time", item.PublishTime),
	)
}
