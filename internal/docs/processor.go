package docs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/retrieval"
	"github.com/insurelab/claimlens/internal/store"
)

// Processor ingests policy document text: split into chunks, index for
// retrieval, record metadata.
type Processor struct {
	chunker *Chunker
	index   retrieval.Indexer
	repo    store.DocumentRepository // nil disables metadata persistence
}

// NewProcessor creates a document processor
func NewProcessor(chunker *Chunker, index retrieval.Indexer, repo store.DocumentRepository) *Processor {
	if chunker == nil {
		chunker = NewChunker(0, 0)
	}
	return &Processor{chunker: chunker, index: index, repo: repo}
}

// Ingest chunks and indexes document text and returns the document record.
// Empty text is rejected; a document that produces no chunks is useless.
func (p *Processor) Ingest(ctx context.Context, filename, policyType, text string) (*model.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("document %q contains no extractable text", filename)
	}

	documentID := uuid.New().String()
	pieces := p.chunker.Split(text)

	chunks := make([]model.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, model.DocumentChunk{
			ChunkID:    uuid.New().String(),
			DocumentID: documentID,
			Index:      i,
			Content:    piece,
		})
	}

	if err := p.index.IndexChunks(chunks); err != nil {
		return nil, fmt.Errorf("indexing document %q: %w", filename, err)
	}

	doc := &model.Document{
		DocumentID:    documentID,
		Filename:      filename,
		PolicyType:    policyType,
		TextLength:    len(text),
		ChunksCreated: len(chunks),
		UploadedAt:    time.Now().UTC(),
		Status:        "processed",
	}

	if p.repo != nil {
		if err := p.repo.SaveDocument(ctx, *doc); err != nil {
			return nil, fmt.Errorf("saving document %q: %w", filename, err)
		}
	}
	return doc, nil
}

// Delete removes a document from the index and the metadata store
func (p *Processor) Delete(ctx context.Context, documentID string) error {
	if err := p.index.DeleteDocument(documentID); err != nil {
		return fmt.Errorf("removing document %s from index: %w", documentID, err)
	}
	if p.repo != nil {
		if err := p.repo.DeleteDocument(ctx, documentID); err != nil {
			return fmt.Errorf("deleting document %s: %w", documentID, err)
		}
	}
	return nil
}
