package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapadoacolhimento/iana/internal/api/handlers"
	"github.com/mapadoacolhimento/iana/internal/config"
	"github.com/mapadoacolhimento/iana/internal/index"
	"github.com/mapadoacolhimento/iana/internal/openai"
	"github.com/mapadoacolhimento/iana/internal/server"
	"github.com/mapadoacolhimento/iana/internal/service"
	"github.com/mapadoacolhimento/iana/internal/store"
	"github.com/mapadoacolhimento/iana/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the iana API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("OPENAI_API_KEY is required to serve queries")
	}

	persona, err := cfg.Persona()
	if err != nil {
		return err
	}

	records, err := store.Load(cfg.NodeStorePath)
	if err != nil {
		return fmt.Errorf("failed to load node store from %s (run 'ianad ingest' first): %w", cfg.NodeStorePath, err)
	}

	idx, err := index.New(records)
	if err != nil {
		return fmt.Errorf("failed to build vector index: %w", err)
	}
	log.Printf("loaded node store: %d records, dimension %d", idx.Size(), idx.Dimension())

	aiClient := newOpenAIClient(cfg)

	chatSvc := service.NewChatService(aiClient, aiClient, idx, service.ChatConfig{
		Persona:            persona,
		TopK:               cfg.TopK,
		HistoryMaxMessages: cfg.HistoryMaxMessages,
		RequestTimeout:     cfg.RequestTimeout,
	})

	// A content rebuild rewrites the store file; the in-memory index is built
	// once at startup and picks the new store up on the next restart.
	ingestSvc := service.NewIngestService(aiClient, service.IngestConfig{
		Chunk:     service.ChunkConfig{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap},
		Workers:   cfg.IngestWorkers,
		StorePath: cfg.NodeStorePath,
	})

	routerCfg := server.RouterConfig{
		QueryHandler:   handlers.NewQueryHandler(chatSvc),
		ContentHandler: handlers.NewContentHandler(ingestSvc, cfg.SourceDir),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func newOpenAIClient(cfg *config.Config) *openai.Client {
	return openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		GenerationModel:     cfg.GenerationModel,
		Temperature:         cfg.Temperature,
	})
}
