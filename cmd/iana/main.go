package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapadoacolhimento/iana/internal/cli"
	"github.com/mapadoacolhimento/iana/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "iana",
		Short: "IAna CLI - chat grounded on the Mapa do Acolhimento knowledge base",
		Long: `IAna CLI sends questions to a running ianad server.

Environment variables:
  IANA_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
