//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mapadoacolhimento/iana/internal/api/handlers"
	"github.com/mapadoacolhimento/iana/internal/domain"
	"github.com/mapadoacolhimento/iana/internal/index"
	"github.com/mapadoacolhimento/iana/internal/server"
	"github.com/mapadoacolhimento/iana/internal/service"
	"github.com/mapadoacolhimento/iana/internal/store"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	ServerURL    string
	ServerCloser func()
	HTTPClient   *http.Client
	SourceDir    string
	StorePath    string
}

// SetupE2EEnv runs a real ingestion over a temp source directory, loads the
// resulting node store into an index, and starts the HTTP server against stub
// model clients so no network calls leave the process.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	tmp := t.TempDir()
	sourceDir := filepath.Join(tmp, "assets")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}
	storePath := filepath.Join(tmp, "nodes.json")

	sources := map[string]string{
		"mammals.txt": "Cats and dogs are mammals. Mammals nurse their young and most have fur.",
		"rocks.txt":   "Granite and basalt are rocks. Rocks form from cooled magma or compressed sediment.",
	}
	for name, content := range sources {
		if err := os.WriteFile(filepath.Join(sourceDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write source file: %v", err)
		}
	}

	embedder := &stubEmbedder{}
	ingestSvc := service.NewIngestService(embedder, service.IngestConfig{
		Chunk:     service.ChunkConfig{ChunkSize: 256, ChunkOverlap: 16},
		Workers:   2,
		StorePath: storePath,
	})

	paths, err := service.ListSources(sourceDir)
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if _, err := ingestSvc.Ingest(ctx, paths); err != nil {
		t.Fatalf("ingestion failed: %v", err)
	}

	records, err := store.Load(storePath)
	if err != nil {
		t.Fatalf("failed to load node store: %v", err)
	}
	idx, err := index.New(records)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}

	chatSvc := service.NewChatService(embedder, &stubGenerator{}, idx, service.ChatConfig{
		Persona:            "You are a helpful test assistant.",
		TopK:               2,
		HistoryMaxMessages: 20,
	})

	router := server.NewRouter(server.RouterConfig{
		QueryHandler:   handlers.NewQueryHandler(chatSvc),
		ContentHandler: handlers.NewContentHandler(ingestSvc, sourceDir),
	})

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return &E2ETestEnv{
		T:         t,
		Ctx:       ctx,
		ServerURL: serverURL,
		ServerCloser: func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		},
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		SourceDir:  sourceDir,
		StorePath:  storePath,
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
}

// APIResponse represents the standard API response envelope
type APIResponse struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, int, error) {
	return e.doRequest("GET", path, nil, "")
}

// Post performs a POST request; sessionID sets the X-Session-ID header when non-empty
func (e *E2ETestEnv) Post(path string, body interface{}, sessionID string) (*APIResponse, int, error) {
	return e.doRequest("POST", path, body, sessionID)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, sessionID string) (*APIResponse, int, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return &apiResp, resp.StatusCode, nil
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// stubEmbedder maps text to a letter-frequency vector, so texts about the
// same topic score closer than unrelated ones and results are deterministic.
type stubEmbedder struct{}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

// stubGenerator echoes the prompt shape so tests can observe history growth.
type stubGenerator struct{}

func (s *stubGenerator) GenerateAnswer(ctx context.Context, prompt []domain.ChatMessage) (string, error) {
	lastUser := ""
	for _, msg := range prompt {
		if msg.Role == domain.RoleUser {
			lastUser = msg.Content
		}
	}
	return fmt.Sprintf("[%d msgs] you asked: %s", len(prompt), lastUser), nil
}
