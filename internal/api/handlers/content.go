package handlers

import (
	"context"
	"net/http"

	"github.com/mapadoacolhimento/iana/internal/api"
	"github.com/mapadoacolhimento/iana/internal/domain"
	"github.com/mapadoacolhimento/iana/internal/service"
)

// IngestAPI is the ingestion pipeline consumed by the HTTP surface.
type IngestAPI interface {
	Ingest(ctx context.Context, paths []string) (*service.IngestResult, error)
}

// ContentHandler rebuilds the node store from the configured source
// directory on demand.
type ContentHandler struct {
	svc       IngestAPI
	sourceDir string
}

func NewContentHandler(svc IngestAPI, sourceDir string) *ContentHandler {
	return &ContentHandler{svc: svc, sourceDir: sourceDir}
}

type NodeWithEmbedding struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

type ContentPayload struct {
	NodesWithEmbedding []NodeWithEmbedding `json:"nodesWithEmbedding"`
}

// Rebuild handles POST /api/content: extract, chunk and embed everything
// under the source directory, publish the node store, and return the
// embedded nodes.
func (h *ContentHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	paths, err := service.ListSources(h.sourceDir)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	result, err := h.svc.Ingest(r.Context(), paths)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, toContentPayload(result.Records))
}

func toContentPayload(records []domain.EmbeddingRecord) ContentPayload {
	nodes := make([]NodeWithEmbedding, len(records))
	for i, rec := range records {
		nodes[i] = NodeWithEmbedding{Text: rec.Text, Embedding: rec.Embedding}
	}
	return ContentPayload{NodesWithEmbedding: nodes}
}
