package model

import "time"

// Document is the metadata record for an ingested policy document
type Document struct {
	DocumentID    string    `json:"document_id"`           // Generated unique identifier
	Filename      string    `json:"filename"`              // Original filename as uploaded
	PolicyType    string    `json:"policy_type,omitempty"` // health, auto, home, ... (free-form)
	TextLength    int       `json:"text_length"`           // Characters of extracted text
	ChunksCreated int       `json:"chunks_created"`        // Chunks produced by the splitter
	UploadedAt    time.Time `json:"upload_timestamp"`
	Status        string    `json:"status"` // "processed" once indexed
}

// DocumentChunk is one indexed slice of a policy document
type DocumentChunk struct {
	ChunkID    string `json:"chunk_id"`    // Generated unique identifier
	DocumentID string `json:"document_id"` // Owning document
	Index      int    `json:"chunk_index"` // Position within the document (0-based)
	Content    string `json:"content"`     // Chunk text
}

// Passage is a retrieved chunk with its relevance to a query
type Passage struct {
	Content        string            `json:"content"`
	RelevanceScore float64           `json:"relevance_score"`    // Similarity in [0, 1]
	Metadata       map[string]string `json:"metadata,omitempty"` // document_id, chunk_index, ...
}
