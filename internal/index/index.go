// Package index provides an in-memory vector index over embedding records
// with brute-force cosine similarity search. The index is immutable after
// construction and safe for concurrent readers; the Retriever boundary allows
// swapping in an approximate-nearest-neighbor structure without touching
// callers if the store ever outgrows a full scan.
package index

import (
	"math"
	"sort"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

// ScoredRecord pairs a stored record with its similarity to a query vector.
type ScoredRecord struct {
	Record   domain.EmbeddingRecord
	Position int
	Score    float32
}

// Retriever returns the top-K most similar stored records for a query vector.
type Retriever interface {
	Search(query []float32, topK int) []ScoredRecord
}

// VectorIndex holds embedding records in a fixed order with O(1) access by
// position. Build it once per process and share it across requests.
type VectorIndex struct {
	records   []domain.EmbeddingRecord
	dimension int
}

// New builds a VectorIndex from validated records.
func New(records []domain.EmbeddingRecord) (*VectorIndex, error) {
	if err := domain.ValidateRecords(records); err != nil {
		return nil, err
	}

	// Copy so later mutation of the caller's slice cannot reach the index.
	owned := make([]domain.EmbeddingRecord, len(records))
	copy(owned, records)

	return &VectorIndex{
		records:   owned,
		dimension: len(owned[0].Embedding),
	}, nil
}

// Size returns the number of indexed records.
func (idx *VectorIndex) Size() int {
	return len(idx.records)
}

// Dimension returns the fixed vector length D shared by all records.
func (idx *VectorIndex) Dimension() int {
	return idx.dimension
}

// Search scans every record, scoring it against the query by cosine
// similarity, and returns the topK highest-scoring records in descending
// score order. Ties keep the record with the lower original position, so
// identical inputs always produce identical results. topK greater than the
// store size is clamped; topK below 1 is treated as 1.
func (idx *VectorIndex) Search(query []float32, topK int) []ScoredRecord {
	if topK < 1 {
		topK = 1
	}
	if topK > len(idx.records) {
		topK = len(idx.records)
	}

	scored := make([]ScoredRecord, len(idx.records))
	for i, rec := range idx.records {
		scored[i] = ScoredRecord{
			Record:   rec,
			Position: i,
			Score:    Cosine(query, rec.Embedding),
		}
	}

	// SliceStable with a strict comparison keeps equal scores in original
	// position order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored[:topK]
}

// Cosine computes cosine similarity between two vectors. Vectors of different
// lengths or zero magnitude score 0 rather than producing NaN.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
