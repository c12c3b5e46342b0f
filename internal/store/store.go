// Package store persists embedding records as a JSON node store. The file is
// the sole hand-off between ingestion and query serving: an ordered array of
// {text, embedding} objects sharing one fixed vector length.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

// nodeRecord mirrors domain.EmbeddingRecord but keeps fields as pointers so a
// missing key can be told apart from an empty value during load.
type nodeRecord struct {
	Text      *string    `json:"text"`
	Embedding *[]float32 `json:"embedding"`
}

// Save writes the records to path atomically (temp file plus rename), creating
// parent directories as needed. A store is published complete or not at all.
func Save(path string, records []domain.EmbeddingRecord) error {
	if err := domain.ValidateRecords(records); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal node store: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "nodes-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write node store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close node store: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to publish node store: %w", err)
	}
	return nil
}

// Load reads and validates the node store at path.
func Load(path string) ([]domain.EmbeddingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeEmptyStore, "node store not found", err)
		}
		return nil, fmt.Errorf("failed to read node store: %w", err)
	}

	var raw []nodeRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCorruptStore, "node store is not valid JSON", err)
	}

	records := make([]domain.EmbeddingRecord, 0, len(raw))
	for i, rec := range raw {
		if rec.Text == nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCorruptStore, fmt.Sprintf("record %d is missing text", i), nil)
		}
		if rec.Embedding == nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCorruptStore, fmt.Sprintf("record %d is missing embedding", i), nil)
		}
		records = append(records, domain.EmbeddingRecord{
			Text:      *rec.Text,
			Embedding: *rec.Embedding,
		})
	}

	if err := domain.ValidateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}
