package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// @title General Ledger API
// @version 1.0
// @description Double-entry posting, reversal and reporting for multi-tenant ledgers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gl_backend",
		Short: "Multi-tenant general ledger service",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand(logger))
	rootCmd.AddCommand(newMigrateCommand(logger))

	return rootCmd
}
