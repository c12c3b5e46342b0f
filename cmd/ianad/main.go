package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapadoacolhimento/iana/internal/cli"
	"github.com/mapadoacolhimento/iana/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ianad",
		Short: "IAna daemon and CLI",
		Long:  "IAna daemon for running the query API server and building the node store",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IngestCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
