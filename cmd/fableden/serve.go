// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fableden/fableden/internal/auth"
	authpg "github.com/fableden/fableden/internal/auth/postgres"
	bestiarypg "github.com/fableden/fableden/internal/bestiary/postgres"
	"github.com/fableden/fableden/internal/logging"
	"github.com/fableden/fableden/internal/observability"
	"github.com/fableden/fableden/internal/sheet"
	sheetpg "github.com/fableden/fableden/internal/sheet/postgres"
	"github.com/fableden/fableden/internal/store"
	"github.com/fableden/fableden/internal/web"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	addr        string
	metricsAddr string
	logFormat   string
}

// Validate checks that the configuration is valid.
func (cfg *serveConfig) Validate() error {
	if cfg.addr == "" {
		return fmt.Errorf("addr is required")
	}
	if cfg.logFormat != "json" && cfg.logFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.logFormat)
	}
	return nil
}

// Default values for serve command flags.
const (
	defaultAddr        = ":8080"
	defaultMetricsAddr = "127.0.0.1:9100"
	defaultLogFormat   = "json"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server which handles account signup and signin,
character sheet management, and the monster catalog.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", defaultAddr, "API listen address")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format (json or text)")

	return cmd
}

// runServe wires the services together and runs the API server until a
// shutdown signal or a server failure.
func runServe(ctx context.Context, cfg *serveConfig, cmd *cobra.Command) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefault("fableden", version, cfg.logFormat)
	logger := slog.Default()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	tokenSecret := os.Getenv("FABLEDEN_TOKEN_SECRET")
	if tokenSecret == "" {
		return fmt.Errorf("FABLEDEN_TOKEN_SECRET environment variable is required")
	}

	slog.Info("starting server",
		"addr", cfg.addr,
		"log_format", cfg.logFormat,
	)

	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	slog.Info("connected to database")

	tokens, err := auth.NewTokenCodec([]byte(tokenSecret))
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	accounts := authpg.NewAccountRepository(pool)
	characters := sheetpg.NewCharacterRepository(pool)
	monsters := bestiarypg.NewMonsterRepository(pool)

	authSvc, err := auth.NewServiceWithLogger(accounts, tokens, auth.NewBcryptHasher(), logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	sheetSvc, err := sheet.NewService(characters)
	if err != nil {
		return fmt.Errorf("failed to create sheet service: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.metricsAddr != "" {
		obsServer = observability.NewServer(cfg.metricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrChan, obsErr := obsServer.Start()
		if obsErr != nil {
			return fmt.Errorf("failed to start observability server: %w", obsErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer, err := web.NewServer(web.Config{
		Addr:     cfg.addr,
		Auth:     authSvc,
		Sheets:   sheetSvc,
		Monsters: monsters,
		Tokens:   tokens,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	apiErrChan, err := apiServer.Start()
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Server started")
	slog.Info("server ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping API server", "error", err)
	}

	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// This ensures that server failures trigger graceful shutdown of the entire process.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
