package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "storage", "nodes.json")
}

func sampleRecords() []domain.EmbeddingRecord {
	return []domain.EmbeddingRecord{
		{Text: "cats are mammals", Embedding: []float32{0.9, 0.1, 0}},
		{Text: "dogs are mammals", Embedding: []float32{0.8, 0.2, 0}},
		{Text: "rocks are minerals", Embedding: []float32{0, 0.1, 0.9}},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := storePath(t)
	records := sampleRecords()

	require.NoError(t, Save(path, records))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSave_RejectsEmpty(t *testing.T) {
	err := Save(storePath(t), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyStore)
}

func TestSave_RejectsDimensionMismatch(t *testing.T) {
	records := []domain.EmbeddingRecord{
		{Text: "a", Embedding: []float32{1, 2, 3}},
		{Text: "b", Embedding: []float32{1, 2}},
	}
	err := Save(storePath(t), records)

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrCodeCorruptStore, derr.Code)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrCodeEmptyStore, derr.Code)
}

func TestLoad_EmptyArray(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrEmptyStore)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrCodeCorruptStore, derr.Code)
}

func TestLoad_MissingField(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing embedding", `[{"text":"hello"}]`},
		{"missing text", `[{"embedding":[0.1,0.2]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := storePath(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(path)

			var derr *domain.DomainError
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, domain.ErrCodeCorruptStore, derr.Code)
		})
	}
}

func TestLoad_InconsistentDimensions(t *testing.T) {
	path := storePath(t)
	body := `[{"text":"a","embedding":[0.1,0.2]},{"text":"b","embedding":[0.1]}]`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrCodeCorruptStore, derr.Code)
}
