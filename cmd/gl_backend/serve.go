package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/handlers"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	rediscache "github.com/SscSPs/general_ledger/internal/repositories/cache/redis"
	"github.com/SscSPs/general_ledger/internal/repositories/database/memory"
	"github.com/SscSPs/general_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/general_ledger/internal/utils/analytics"
	"github.com/SscSPs/general_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	skipMigrations bool
	accountsFile   string
}

func newServeCommand(logger *slog.Logger) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	cmd.Flags().StringVar(&opts.accountsFile, "accounts", "", "JSON chart of accounts to load (memory storage only)")
	return cmd
}

func serve(ctx context.Context, logger *slog.Logger, opts *serveOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return err
	}

	repos, closeRepos, err := buildRepositories(ctx, logger, cfg, opts)
	if err != nil {
		return err
	}
	defer closeRepos()

	if cfg.RedisURL != "" {
		client, err := rediscache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			return err
		}
		defer client.Close()
		repos.ReportCache = rediscache.NewReportCache(client, cfg.ReportCacheTTL)
		logger.Info("Report cache enabled", slog.Duration("ttl", cfg.ReportCacheTTL))
	}

	posthogClient := analytics.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return err
	}
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepositories(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts *serveOptions) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		registry := memory.NewAccountRegistry()
		if opts.accountsFile != "" {
			n, err := loadAccounts(registry, opts.accountsFile)
			if err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
			logger.Info("Loaded chart of accounts", slog.Int("accounts", n))
		}
		logger.Warn("Using in-memory storage; the ledger is lost on restart")
		return portsrepo.RepositoryProvider{
			AccountRegistry: registry,
			LedgerStore:     memory.NewLedgerStore(memory.WithLockTimeout(cfg.PostingLockTimeout)),
		}, func() {}, nil

	default:
		if opts.accountsFile != "" {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("--accounts is only supported with memory storage")
		}
		if !opts.skipMigrations {
			if err := runMigrations(logger, cfg, false); err != nil {
				logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool, cfg.PostingLockTimeout), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

// loadAccounts reads a JSON array of accounts into the in-memory registry.
func loadAccounts(registry *memory.AccountRegistry, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read accounts file: %w", err)
	}
	var accounts []domain.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return 0, fmt.Errorf("failed to parse accounts file: %w", err)
	}
	for _, acc := range accounts {
		if acc.TenantID == "" || acc.AccountID == "" || !acc.AccountType.IsValid() {
			return 0, fmt.Errorf("invalid account %q in %s", acc.AccountID, path)
		}
		registry.SaveAccount(acc)
	}
	return len(accounts), nil
}
