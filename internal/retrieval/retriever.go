package retrieval

import (
	"context"

	"github.com/insurelab/claimlens/internal/model"
)

// ContextProvider is the policy context retrieval capability consumed by the
// decision core. Implementations return empty text and passages, not an
// error, when nothing relevant exists above their relevance threshold.
type ContextProvider interface {
	// Retrieve returns combined context text bounded to maxLength plus the
	// passages it was assembled from, most relevant first. documentID narrows
	// the search to one document when non-empty.
	Retrieve(ctx context.Context, query, documentID string, maxLength int) (string, []model.Passage, error)
}

// Indexer is the ingestion side of the retrieval store
type Indexer interface {
	// IndexChunks adds document chunks to the searchable index
	IndexChunks(chunks []model.DocumentChunk) error

	// DeleteDocument removes all chunks of a document from the index
	DeleteDocument(documentID string) error
}
