package service

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/mapadoacolhimento/iana/internal/domain"
	"github.com/mapadoacolhimento/iana/internal/extract"
	"github.com/mapadoacolhimento/iana/internal/store"
)

const (
	// embedMaxRetries bounds retry attempts per chunk before the batch fails.
	embedMaxRetries = 3
	// embedInitialBackoff is the first retry delay; later delays grow
	// exponentially.
	embedInitialBackoff = 500 * time.Millisecond
)

// IngestConfig holds the ingestion pipeline's tunables.
type IngestConfig struct {
	Chunk ChunkConfig
	// Workers bounds how many embedding calls run concurrently, to respect
	// the provider's rate limits.
	Workers int
	// StorePath is where the completed node store is published.
	StorePath string
}

// IngestResult reports one completed ingestion run.
type IngestResult struct {
	Documents int
	Records   []domain.EmbeddingRecord
}

// IngestService builds the node store: extract each source, split it into
// chunks, embed every chunk, and persist the ordered records. A store is
// published complete or not at all: any chunk whose embedding still fails
// after bounded retries aborts the whole batch.
type IngestService struct {
	embedder Embedder
	cfg      IngestConfig

	// extractorFor is swappable in tests.
	extractorFor func(path string) extract.Extractor
}

// NewIngestService creates an ingestion pipeline.
func NewIngestService(embedder Embedder, cfg IngestConfig) *IngestService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Chunk.ChunkSize == 0 {
		cfg.Chunk = DefaultChunkConfig()
	}
	return &IngestService{
		embedder:     embedder,
		cfg:          cfg,
		extractorFor: extract.ForPath,
	}
}

// Ingest runs the full pipeline over the given source paths and publishes the
// node store to the configured path.
func (s *IngestService) Ingest(ctx context.Context, paths []string) (*IngestResult, error) {
	nodes, docCount, err := s.collectNodes(ctx, paths)
	if err != nil {
		return nil, err
	}

	records, err := s.embedNodes(ctx, nodes)
	if err != nil {
		return nil, err
	}

	if s.cfg.StorePath != "" {
		if err := store.Save(s.cfg.StorePath, records); err != nil {
			return nil, err
		}
		log.Printf("published node store with %d records to %s", len(records), s.cfg.StorePath)
	}

	return &IngestResult{
		Documents: docCount,
		Records:   records,
	}, nil
}

func (s *IngestService) collectNodes(ctx context.Context, paths []string) ([]*domain.Node, int, error) {
	var nodes []*domain.Node
	docCount := 0

	for _, path := range paths {
		doc, err := s.extractorFor(path).Extract(ctx, path)
		if err != nil {
			return nil, 0, err
		}
		docCount++

		chunks, err := SplitText(doc.RawText, s.cfg.Chunk)
		if err != nil {
			return nil, 0, err
		}

		for _, chunk := range chunks {
			nodes = append(nodes, domain.NewNode(chunk, map[string]string{
				"source": doc.SourcePath,
			}))
		}
	}

	if len(nodes) == 0 {
		return nil, 0, domain.ErrEmptyStore
	}
	return nodes, docCount, nil
}

// embedNodes embeds all chunks concurrently. Chunks are independent, so calls
// are issued through a worker pool bounded by cfg.Workers; the first chunk
// that exhausts its retries cancels the remaining work and fails the batch.
// Record order follows node order regardless of completion order.
func (s *IngestService) embedNodes(ctx context.Context, nodes []*domain.Node) ([]domain.EmbeddingRecord, error) {
	records := make([]domain.EmbeddingRecord, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			embedding, err := s.embedWithRetry(gctx, node.Text)
			if err != nil {
				return domain.EmbeddingFailedAt(i, err)
			}
			node.Embedding = embedding
			records[i] = domain.EmbeddingRecord{
				Text:      node.Text,
				Embedding: embedding,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// ListSources walks a directory and returns the ingestable source files
// (.txt, .md, .pdf) in deterministic order.
func ListSources(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".pdf":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *IngestService) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(embedInitialBackoff),
		), embedMaxRetries),
		ctx,
	)

	var embedding []float32
	op := func() error {
		var err error
		embedding, err = s.embedder.GenerateEmbedding(ctx, text)
		return err
	}

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return embedding, nil
}
