package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mapadoacolhimento/iana/internal/api/middleware"
	"github.com/mapadoacolhimento/iana/internal/domain"
)

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Query(ctx context.Context, sessionID, query string) (*domain.QueryResult, error) {
	args := m.Called(ctx, sessionID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueryResult), args.Error(1)
}

func queryRequest(body []byte, sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	if sessionID != "" {
		ctx := context.WithValue(req.Context(), middleware.SessionIDKey, sessionID)
		req = req.WithContext(ctx)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestQueryHandler_Ask_Success(t *testing.T) {
	mockSvc := new(MockQueryService)
	handler := NewQueryHandler(mockSvc)

	mockSvc.On("Query", mock.Anything, "s-1", "tell me about mammals").Return(&domain.QueryResult{
		Answer: "cats and dogs are mammals",
	}, nil)

	w := httptest.NewRecorder()
	handler.Ask(w, queryRequest([]byte(`{"query":"tell me about mammals"}`), "s-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	payload := resp["payload"].(map[string]interface{})
	assert.Equal(t, "cats and dogs are mammals", payload["response"])
	mockSvc.AssertExpectations(t)
}

func TestQueryHandler_Ask_EmptyQueryRejectedBeforePipeline(t *testing.T) {
	mockSvc := new(MockQueryService)
	handler := NewQueryHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.Ask(w, queryRequest([]byte(`{"query":""}`), "s-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "query is required", resp["error"])
	mockSvc.AssertNotCalled(t, "Query")
}

func TestQueryHandler_Ask_MissingQueryField(t *testing.T) {
	mockSvc := new(MockQueryService)
	handler := NewQueryHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.Ask(w, queryRequest([]byte(`{}`), "s-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Query")
}

func TestQueryHandler_Ask_InvalidJSON(t *testing.T) {
	mockSvc := new(MockQueryService)
	handler := NewQueryHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.Ask(w, queryRequest([]byte(`{not json`), "s-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Query")
}

func TestQueryHandler_Ask_PipelineFailureReturnsFallbackAnswer(t *testing.T) {
	mockSvc := new(MockQueryService)
	handler := NewQueryHandler(mockSvc)

	mockSvc.On("Query", mock.Anything, mock.Anything, "a question").
		Return(nil, domain.NewDomainErrorWithCause(domain.ErrCodeGenerationFailed, "failed to generate answer", context.DeadlineExceeded))

	w := httptest.NewRecorder()
	handler.Ask(w, queryRequest([]byte(`{"query":"a question"}`), "s-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	payload := resp["payload"].(map[string]interface{})
	assert.Equal(t, domain.FallbackAnswer, payload["response"])
	assert.NotContains(t, w.Body.String(), "deadline")
	assert.NotContains(t, w.Body.String(), "GENERATION_FAILED")
}

func TestQueryHandler_Ask_DefaultSessionWhenUnset(t *testing.T) {
	mockSvc := new(MockQueryService)
	handler := NewQueryHandler(mockSvc)

	mockSvc.On("Query", mock.Anything, middleware.DefaultSessionID, "hi").Return(&domain.QueryResult{Answer: "olá"}, nil)

	w := httptest.NewRecorder()
	handler.Ask(w, queryRequest([]byte(`{"query":"hi"}`), ""))

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
