package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mapadoacolhimento/iana/internal/api/handlers"
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

func newTestRouter(svc handlers.QueryService) http.Handler {
	return NewRouter(RouterConfig{
		QueryHandler: handlers.NewQueryHandler(svc),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(new(MockQueryService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRouter_QuerySuccess(t *testing.T) {
	mockSvc := new(MockQueryService)
	mockSvc.On("Query", mock.Anything, mock.Anything, "oi").Return(&domain.QueryResult{Answer: "olá!"}, nil)
	router := newTestRouter(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"oi"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	payload := resp["payload"].(map[string]interface{})
	assert.Equal(t, "olá!", payload["response"])
}

func TestRouter_QueryGetIsMethodNotAllowed(t *testing.T) {
	mockSvc := new(MockQueryService)
	router := newTestRouter(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/query", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "method not allowed", resp["error"])
	mockSvc.AssertNotCalled(t, "Query")
}

func TestRouter_SessionHeaderReachesService(t *testing.T) {
	mockSvc := new(MockQueryService)
	mockSvc.On("Query", mock.Anything, "conversation-42", "oi").Return(&domain.QueryResult{Answer: "olá"}, nil)
	router := newTestRouter(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"oi"}`))
	req.Header.Set("X-Session-ID", "conversation-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "conversation-42", w.Header().Get("X-Session-ID"))
	mockSvc.AssertExpectations(t)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router := newTestRouter(new(MockQueryService))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(new(MockQueryService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
