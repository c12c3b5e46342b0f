package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mapadoacolhimento/iana/internal/domain"
	"github.com/mapadoacolhimento/iana/internal/index"
	"github.com/mapadoacolhimento/iana/internal/telemetry"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Generator produces an answer for an assembled prompt.
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt []domain.ChatMessage) (string, error)
}

// ChatConfig holds the query engine's tunables, validated at startup.
type ChatConfig struct {
	Persona            string
	TopK               int
	HistoryMaxMessages int
	RequestTimeout     time.Duration
}

// session owns one conversation's history. The mutex serializes overlapping
// requests for the same session; independent sessions never contend.
type session struct {
	mu      sync.Mutex
	history []domain.ChatMessage
}

// ChatService orchestrates one query: embed the question, retrieve the top-K
// most similar chunks from the shared immutable index, assemble the prompt
// with the session's history, invoke generation, and append the completed
// turn. Pipeline failures never surface to the caller as raw errors: the
// underlying error is recorded and the fixed fallback answer policy applies
// at the transport boundary.
type ChatService struct {
	embedder  Embedder
	generator Generator
	retriever index.Retriever
	cfg       ChatConfig

	mu       sync.Mutex
	sessions map[string]*session
}

// NewChatService creates a query engine over an already-built retriever.
func NewChatService(embedder Embedder, generator Generator, retriever index.Retriever, cfg ChatConfig) *ChatService {
	if cfg.TopK < 1 {
		cfg.TopK = 2
	}
	return &ChatService{
		embedder:  embedder,
		generator: generator,
		retriever: retriever,
		cfg:       cfg,
		sessions:  make(map[string]*session),
	}
}

// Query runs the full pipeline for one user question within the named
// session. The returned error is always a DomainError; callers must convert
// it to the generic user-facing answer rather than exposing it.
func (s *ChatService) Query(ctx context.Context, sessionID, query string) (*domain.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	queryVector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, s.recordFailure(ctx, domain.NewDomainErrorWithCause(domain.ErrCodeEmbeddingFailed, "failed to embed query", err))
	}

	scored := s.retriever.Search(queryVector, s.cfg.TopK)
	retrieved := make([]domain.RetrievedChunk, len(scored))
	for i, sr := range scored {
		retrieved[i] = domain.RetrievedChunk{Text: sr.Record.Text, Score: sr.Score}
	}

	prompt := AssemblePrompt(s.cfg.Persona, sess.history, retrieved, query, PromptConfig{
		HistoryMaxMessages: s.cfg.HistoryMaxMessages,
	})

	answer, err := s.generator.GenerateAnswer(ctx, prompt)
	if err != nil {
		return nil, s.recordFailure(ctx, domain.NewDomainErrorWithCause(domain.ErrCodeGenerationFailed, "failed to generate answer", err))
	}

	// One completed turn appends exactly one user and one assistant message.
	sess.history = append(sess.history,
		domain.ChatMessage{Role: domain.RoleUser, Content: query},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer},
	)

	return &domain.QueryResult{
		Answer:    answer,
		Retrieved: retrieved,
	}, nil
}

// History returns a copy of the session's accumulated messages.
func (s *ChatService) History(sessionID string) []domain.ChatMessage {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]domain.ChatMessage, len(sess.history))
	copy(out, sess.history)
	return out
}

func (s *ChatService) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

func (s *ChatService) recordFailure(ctx context.Context, err *domain.DomainError) error {
	log.Printf("query pipeline failed: %v", err)
	telemetry.CaptureError(ctx, err)
	return err
}
