package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mapadoacolhimento/iana/internal/domain"
	"github.com/mapadoacolhimento/iana/internal/service"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, paths []string) (*service.IngestResult, error) {
	args := m.Called(ctx, paths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func sourceDirWithFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o644))
	}
	return dir
}

func TestContentHandler_Rebuild_Success(t *testing.T) {
	mockSvc := new(MockIngestService)
	dir := sourceDirWithFiles(t, "a.txt", "b.md")
	handler := NewContentHandler(mockSvc, dir)

	records := []domain.EmbeddingRecord{
		{Text: "chunk one", Embedding: []float32{0.1, 0.2}},
		{Text: "chunk two", Embedding: []float32{0.3, 0.4}},
	}
	mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(paths []string) bool {
		return len(paths) == 2
	})).Return(&service.IngestResult{Documents: 2, Records: records}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
	w := httptest.NewRecorder()
	handler.Rebuild(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload := resp["payload"].(map[string]interface{})
	nodes := payload["nodesWithEmbedding"].([]interface{})
	require.Len(t, nodes, 2)
	first := nodes[0].(map[string]interface{})
	assert.Equal(t, "chunk one", first["text"])
	mockSvc.AssertExpectations(t)
}

func TestContentHandler_Rebuild_IngestionFailure(t *testing.T) {
	mockSvc := new(MockIngestService)
	dir := sourceDirWithFiles(t, "a.txt")
	handler := NewContentHandler(mockSvc, dir)

	mockSvc.On("Ingest", mock.Anything, mock.Anything).
		Return(nil, domain.EmbeddingFailedAt(3, context.DeadlineExceeded))

	req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
	w := httptest.NewRecorder()
	handler.Rebuild(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "embedding failed for chunk 3")
}

func TestContentHandler_Rebuild_MissingSourceDir(t *testing.T) {
	mockSvc := new(MockIngestService)
	handler := NewContentHandler(mockSvc, filepath.Join(t.TempDir(), "absent"))

	req := httptest.NewRequest(http.MethodPost, "/api/content", nil)
	w := httptest.NewRecorder()
	handler.Rebuild(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockSvc.AssertNotCalled(t, "Ingest")
}
