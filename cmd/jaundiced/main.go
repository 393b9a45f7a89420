// Package main wires together the jaundice analyzer service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/akarev/jaundice-rate/internal/admission"
	"github.com/akarev/jaundice-rate/internal/analysis"
	"github.com/akarev/jaundice-rate/internal/api"
	"github.com/akarev/jaundice-rate/internal/charged"
	"github.com/akarev/jaundice-rate/internal/clock/system"
	"github.com/akarev/jaundice-rate/internal/config"
	collyfetcher "github.com/akarev/jaundice-rate/internal/fetcher/colly"
	"github.com/akarev/jaundice-rate/internal/logging"
	"github.com/akarev/jaundice-rate/internal/metrics"
	"github.com/akarev/jaundice-rate/internal/morph"
	"github.com/akarev/jaundice-rate/internal/pipeline"
	"github.com/akarev/jaundice-rate/internal/policy/hostlimit"
	"github.com/akarev/jaundice-rate/internal/sanitize/readability"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	normalizer := morph.New()
	words, err := charged.Load(cfg.Dictionary.Path, normalizer.Normalize)
	if err != nil {
		logger.Fatal("load charged dictionary failed",
			zap.String("path", cfg.Dictionary.Path),
			zap.Error(err),
		)
	}
	logger.Info("charged dictionary loaded",
		zap.String("path", cfg.Dictionary.Path),
		zap.Int("words", words.Len()),
	)

	clock := system.New()
	pool := analysis.NewPool(
		analysis.Config{
			PoolSize:   cfg.Analysis.PoolSize,
			QueueDepth: cfg.Analysis.QueueDepth,
		},
		func() analysis.Tokenizer { return morph.New() },
		clock,
		logger.Named("analysis"),
	)
	defer pool.Close()

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})

	var hostLimit *hostlimit.Limiter
	if cfg.HostLimit.Enabled {
		hostLimit = hostlimit.New(hostlimit.Config{
			DefaultRPS:   cfg.HostLimit.RPS,
			DefaultBurst: cfg.HostLimit.Burst,
		})
	}

	orchestrator := pipeline.New(
		admission.New(cfg.Fetch.MaxConcurrent),
		hostLimit,
		fetcher,
		readability.New(),
		pool,
		words,
		clock,
		pipeline.Config{
			FetchTimeout:   cfg.FetchTimeout(),
			AnalyzeTimeout: cfg.AnalysisTimeout(),
		},
		logger.Named("pipeline"),
	)

	apiServer := api.NewServer(orchestrator, cfg, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
