package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ntwoods/dealerdocs/internal/interfaces/cli/configcmd"
	"github.com/ntwoods/dealerdocs/internal/interfaces/cli/server"
	"github.com/ntwoods/dealerdocs/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealerdocs",
		Short: "DealerDocs - dealer rate document uploads",
		Long: `DealerDocs uploads dealer rate documents to Google Drive and keeps one
record per dealer and station in a Google Sheet.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		configcmd.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
