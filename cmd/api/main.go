// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/multiverse/internal/catalog"
	"github.com/briangreenhill/multiverse/internal/config"
	"github.com/briangreenhill/multiverse/internal/http/routes"
	"github.com/briangreenhill/multiverse/internal/upstream"
	"github.com/briangreenhill/multiverse/pkg/rickmorty"
)

func main() {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	lvl, err := cfg.Level()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	logger = logger.Level(lvl)

	// Upstream
	httpClient, err := upstream.NewClient(cfg.Upstream.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("upstream transport error")
	}
	client, err := rickmorty.New(
		rickmorty.WithBaseURL(cfg.Upstream.BaseURL),
		rickmorty.WithHTTPClient(httpClient),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("upstream client error")
	}

	// Cache
	cat, err := catalog.NewWithPolicy(client, cfg.Cache.MaxEntries)
	if err != nil {
		logger.Fatal().Err(err).Msg("cache error")
	}

	// Router / server
	s := routes.New(routes.ServerOptions{
		Catalog: cat,
		Logger:  logger,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("upstream", cfg.Upstream.BaseURL).
			Int("cache_max_entries", cfg.Cache.MaxEntries).
			Msg("starting app")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}
