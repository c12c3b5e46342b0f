package admin

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapadoacolhimento/iana/internal/config"
	"github.com/mapadoacolhimento/iana/internal/service"
)

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [paths...]",
		Short: "Build the node store",
		Long:  "Extracts, chunks and embeds the source documents, then writes the node store JSON file the server loads at startup",
		RunE:  runIngest,
	}

	cmd.Flags().StringP("source-dir", "d", "", "Directory to scan for source files (overrides IANA_SOURCE_DIR)")
	cmd.Flags().StringP("store", "o", "", "Node store output path (overrides IANA_NODE_STORE_PATH)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("OPENAI_API_KEY is required for ingestion")
	}

	if dirFlag, _ := cmd.Flags().GetString("source-dir"); dirFlag != "" {
		cfg.SourceDir = dirFlag
	}
	if storeFlag, _ := cmd.Flags().GetString("store"); storeFlag != "" {
		cfg.NodeStorePath = storeFlag
	}

	paths := args
	if len(paths) == 0 {
		paths, err = service.ListSources(cfg.SourceDir)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no ingestable sources (.txt, .md, .pdf) found in %s", cfg.SourceDir)
	}

	svc := service.NewIngestService(newOpenAIClient(cfg), service.IngestConfig{
		Chunk:     service.ChunkConfig{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap},
		Workers:   cfg.IngestWorkers,
		StorePath: cfg.NodeStorePath,
	})

	log.Printf("ingesting %d source file(s)...", len(paths))
	start := time.Now()

	result, err := svc.Ingest(ctx, paths)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	log.Printf("ingested %d document(s) into %d record(s) in %s",
		result.Documents, len(result.Records), time.Since(start).Round(time.Millisecond))
	return nil
}
