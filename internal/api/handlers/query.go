package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mapadoacolhimento/iana/internal/api"
	"github.com/mapadoacolhimento/iana/internal/api/middleware"
	"github.com/mapadoacolhimento/iana/internal/domain"
)

// QueryService is the query engine consumed by the HTTP surface.
type QueryService interface {
	Query(ctx context.Context, sessionID, query string) (*domain.QueryResult, error)
}

// QueryHandler serves the conversational query endpoint.
type QueryHandler struct {
	svc QueryService
}

func NewQueryHandler(svc QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type QueryRequest struct {
	Query string `json:"query"`
}

// Ask handles POST /api/query. Malformed requests are rejected before any
// embedding call; pipeline failures answer with the fixed fallback string and
// never the underlying error.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		sessionID = middleware.DefaultSessionID
	}

	result, err := h.svc.Query(r.Context(), sessionID, req.Query)
	if err != nil {
		api.Success(w, api.DomainErrorToHTTP(err), api.QueryPayload{Response: domain.FallbackAnswer})
		return
	}

	api.Success(w, http.StatusOK, api.QueryPayload{Response: result.Answer})
}
