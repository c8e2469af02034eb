package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Activities/internal/adapters/feed"
	router "github.com/dkeye/Activities/internal/adapters/http"
	"github.com/dkeye/Activities/internal/app"
	"github.com/dkeye/Activities/internal/config"
	"github.com/dkeye/Activities/internal/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	seed, err := app.BuildCatalog(cfg.Activities)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid activity catalog")
	}
	reg, err := app.NewRegistry(seed,
		app.WithCapacityPolicy(app.PolicyFor(cfg.EnforceCapacity)),
		app.WithEmailRule(app.NewEmailRule(cfg.ValidateEmail)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build registry")
	}

	hub := feed.NewHub(reg, feed.Options{
		Buffer:     cfg.FeedBuffer,
		PingPeriod: cfg.PingPeriod,
		ReadLimit:  cfg.ReadLimit,
	})
	reg.Observe(hub)
	gauges := metrics.NewObserver()
	reg.Observe(gauges)
	gauges.Prime(reg.List())

	r := router.SetupRouter(ctx, cfg, reg, hub)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Bool("enforce_capacity", cfg.EnforceCapacity).Msg("Activities server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	hub.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

// setupLogger switches to JSON outside debug mode and applies log_level.
func setupLogger(cfg *config.Config) {
	if cfg.Mode != "debug" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
