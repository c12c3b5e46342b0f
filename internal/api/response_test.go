package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

func TestSuccess_WrapsInPayloadEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, http.StatusOK, QueryPayload{Response: "hello"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload := resp["payload"].(map[string]interface{})
	assert.Equal(t, "hello", payload["response"])
}

func TestError_Shape(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusMethodNotAllowed, "method not allowed")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "method not allowed", resp["error"])
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"bad request", domain.ErrEmptyQuery, http.StatusBadRequest},
		{"method not allowed", domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"invalid config", domain.ErrInvalidChunkConfig, http.StatusBadRequest},
		{"embedding failed", domain.ErrEmbeddingFailed, http.StatusBadRequest},
		{"generation failed", domain.ErrGenerationFailed, http.StatusBadRequest},
		{"corrupt store", domain.ErrCorruptStore, http.StatusInternalServerError},
		{"empty store", domain.ErrEmptyStore, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, DomainErrorToHTTP(tt.err))
		})
	}
}
