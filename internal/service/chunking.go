package service

import (
	"strings"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

// ChunkConfig controls how document text is split into nodes.
type ChunkConfig struct {
	// ChunkSize and ChunkOverlap are measured in runes. Consecutive chunks
	// share exactly ChunkOverlap runes, so chunk i starts at
	// i*(ChunkSize-ChunkOverlap).
	ChunkSize    int
	ChunkOverlap int
}

// DefaultChunkConfig provides the documented defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:    1024,
		ChunkOverlap: 20,
	}
}

// Validate rejects configurations that cannot make progress.
func (c ChunkConfig) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		return domain.ErrInvalidChunkConfig
	}
	return nil
}

// SplitText splits document text into overlapping fixed-size chunks covering
// the full input with no gaps. A document shorter than ChunkSize yields
// exactly one chunk with the whole text.
func SplitText(text string, cfg ChunkConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, nil
	}

	runes := []rune(clean)
	if len(runes) <= cfg.ChunkSize {
		return []string{clean}, nil
	}

	stride := cfg.ChunkSize - cfg.ChunkOverlap
	chunks := make([]string, 0, len(runes)/stride+1)
	for start := 0; start < len(runes); start += stride {
		end := start + cfg.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
