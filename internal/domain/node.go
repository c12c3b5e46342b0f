package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Document is the raw text of one source, as returned by an extractor.
// Documents exist only during ingestion and are never persisted.
type Document struct {
	ID         string
	RawText    string
	SourcePath string
}

// Node is a bounded span of a document's text, the atomic retrievable unit.
// The embedding is attached once the embedding call completes; a node is
// treated as immutable after that point.
type Node struct {
	ID        string
	Text      string
	Metadata  map[string]string
	Embedding []float32
}

// NewNode creates a node for a chunk of document text.
func NewNode(text string, metadata map[string]string) *Node {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &Node{
		ID:       uuid.NewString(),
		Text:     text,
		Metadata: metadata,
	}
}

// EmbeddingRecord is the durable projection of a node: its text and vector,
// stripped of transient metadata. Every record in one store must carry a
// vector of the same length.
type EmbeddingRecord struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// ValidateRecords checks that records form a loadable store: at least one
// record, every record complete, and a single fixed dimensionality.
func ValidateRecords(records []EmbeddingRecord) error {
	if len(records) == 0 {
		return ErrEmptyStore
	}
	dim := len(records[0].Embedding)
	for i, rec := range records {
		if rec.Text == "" {
			return NewDomainErrorWithCause(ErrCodeCorruptStore, fmt.Sprintf("record %d has no text", i), nil)
		}
		if len(rec.Embedding) == 0 {
			return NewDomainErrorWithCause(ErrCodeCorruptStore, fmt.Sprintf("record %d has no embedding", i), nil)
		}
		if len(rec.Embedding) != dim {
			return NewDomainErrorWithCause(ErrCodeCorruptStore,
				fmt.Sprintf("record %d has dimension %d, expected %d", i, len(rec.Embedding), dim), nil)
		}
	}
	return nil
}

// RetrievedChunk pairs a stored record's text with its similarity score for
// one retrieval.
type RetrievedChunk struct {
	Text  string
	Score float32
}

// QueryResult is the outcome of one query-engine run.
type QueryResult struct {
	Answer    string
	Retrieved []RetrievedChunk
}
