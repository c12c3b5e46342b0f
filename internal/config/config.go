package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Embedding model identity and expected vector dimension D. Every record
	// in the node store must carry a vector of exactly this length.
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-ada-002"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	GenerationModel string  `envconfig:"GENERATION_MODEL" default:"gpt-3.5-turbo"`
	Temperature     float32 `envconfig:"TEMPERATURE" default:"0"`

	TopK         int `envconfig:"TOP_K" default:"2"`
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1024"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"20"`

	NodeStorePath string `envconfig:"NODE_STORE_PATH" default:"storage/nodes.json"`
	SourceDir     string `envconfig:"SOURCE_DIR" default:"assets"`

	// PersonaFile overrides the built-in persona when set.
	PersonaFile string `envconfig:"PERSONA_FILE"`

	// HistoryMaxMessages bounds the chat history injected into each prompt.
	// Oldest user/assistant pairs are dropped first; the persona never counts
	// against the window.
	HistoryMaxMessages int `envconfig:"HISTORY_MAX_MESSAGES" default:"20"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	IngestWorkers  int           `envconfig:"INGEST_WORKERS" default:"4"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("IANA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate checks the tunable parameters once at startup so the serving and
// ingestion paths never re-validate per call.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		return domain.ErrInvalidChunkConfig
	}
	if c.TopK < 1 {
		return domain.ErrInvalidTopK
	}
	if c.EmbeddingDimensions <= 0 {
		return domain.ErrInvalidDimensions
	}
	if c.IngestWorkers < 1 {
		c.IngestWorkers = 1
	}
	return nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// Persona returns the fixed system persona text: the contents of PersonaFile
// when configured, the built-in default otherwise.
func (c *Config) Persona() (string, error) {
	if c.PersonaFile == "" {
		return domain.DefaultPersona, nil
	}
	data, err := os.ReadFile(c.PersonaFile)
	if err != nil {
		return "", fmt.Errorf("failed to read persona file: %w", err)
	}
	persona := strings.TrimSpace(string(data))
	if persona == "" {
		return "", fmt.Errorf("persona file %s is empty", c.PersonaFile)
	}
	return persona, nil
}
