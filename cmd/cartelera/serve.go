package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cartelera/httpserver"
	"cartelera/movie"
	"cartelera/pkg/config"
	"cartelera/pkg/logger"
	"cartelera/pkg/sentry"
	"cartelera/vandyck"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [--env-file <path>]",
		Short: "Serves the listings on / and /simple/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *envFiles)
		},
	}
}

func runServe(cmd *cobra.Command, envFiles []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	serverCfg, source, err := config.LoadServerConfig(envFiles...)
	if err != nil {
		return fmt.Errorf("invalid server config from %s: %w", source, err)
	}

	log := logger.New(os.Stdout, serverCfg.LogLevel, serverCfg.Debug)
	slog.SetDefault(log)
	log.Info("server config loaded", "source", source, "addr", serverCfg.Addr())

	if serverCfg.Reload {
		log.Warn("reload requested but not supported, restart the process to pick up changes")
	}
	runtime.GOMAXPROCS(serverCfg.Workers)

	if err := sentry.Init(cfg); err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer sentry.Flush()

	client := vandyck.NewClient(cfg.ListingURL,
		vandyck.WithTimeout(cfg.FetchTimeout),
		vandyck.WithLogger(log),
	)
	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithServerConfig(serverCfg),
		httpserver.WithLogger(log),
		httpserver.WithMovieService(movie.NewUsecase(client)),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()
	log.Info("server started!", "addr", server.Addr, "listing_url", client.URL)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.Error(err)
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
