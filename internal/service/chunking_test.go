package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

func TestSplitText_ShortDocumentSingleChunk(t *testing.T) {
	text := "a short document"
	chunks, err := SplitText(text, DefaultChunkConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitText_ConsecutiveChunksShareOverlap(t *testing.T) {
	cfg := ChunkConfig{ChunkSize: 10, ChunkOverlap: 4}
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks, err := SplitText(text, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-cfg.ChunkOverlap:])
		head := string([]rune(chunks[i])[:cfg.ChunkOverlap])
		assert.Equal(t, tail, head, "chunk %d should start with the previous chunk's overlap", i)
	}
}

func TestSplitText_LosslessCoverage(t *testing.T) {
	cfg := ChunkConfig{ChunkSize: 50, ChunkOverlap: 7}
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
	text = strings.TrimSpace(text)

	chunks, err := SplitText(text, cfg)
	require.NoError(t, err)

	// Concatenating chunks with the overlap removed reconstructs the input.
	var b strings.Builder
	for i, chunk := range chunks {
		runes := []rune(chunk)
		if i == 0 {
			b.WriteString(chunk)
			continue
		}
		b.WriteString(string(runes[cfg.ChunkOverlap:]))
	}
	assert.Equal(t, text, b.String())
}

func TestSplitText_ChunkStartPositions(t *testing.T) {
	cfg := ChunkConfig{ChunkSize: 8, ChunkOverlap: 3}
	text := "0123456789abcdefghij"

	chunks, err := SplitText(text, cfg)
	require.NoError(t, err)

	stride := cfg.ChunkSize - cfg.ChunkOverlap
	runes := []rune(text)
	for i, chunk := range chunks {
		start := i * stride
		end := start + cfg.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		assert.Equal(t, string(runes[start:end]), chunk)
	}
}

func TestSplitText_EmptyInput(t *testing.T) {
	chunks, err := SplitText("   ", DefaultChunkConfig())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitText_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ChunkConfig
	}{
		{"overlap equals size", ChunkConfig{ChunkSize: 10, ChunkOverlap: 10}},
		{"overlap exceeds size", ChunkConfig{ChunkSize: 10, ChunkOverlap: 11}},
		{"zero size", ChunkConfig{ChunkSize: 0, ChunkOverlap: 0}},
		{"negative overlap", ChunkConfig{ChunkSize: 10, ChunkOverlap: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitText("some text", tt.cfg)
			assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
		})
	}
}
