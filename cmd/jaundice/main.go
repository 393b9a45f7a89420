// Package main implements the command-line article analyzer.
//
// It runs one batch over the URLs given as arguments and prints a short
// per-URL report. The exit code is non-zero when any article fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/akarev/jaundice-rate/internal/admission"
	"github.com/akarev/jaundice-rate/internal/analysis"
	"github.com/akarev/jaundice-rate/internal/charged"
	"github.com/akarev/jaundice-rate/internal/clock/system"
	"github.com/akarev/jaundice-rate/internal/config"
	collyfetcher "github.com/akarev/jaundice-rate/internal/fetcher/colly"
	"github.com/akarev/jaundice-rate/internal/jaundice"
	"github.com/akarev/jaundice-rate/internal/logging"
	"github.com/akarev/jaundice-rate/internal/morph"
	"github.com/akarev/jaundice-rate/internal/pipeline"
	"github.com/akarev/jaundice-rate/internal/sanitize/readability"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	dictPath := flag.String("dict", "", "Path to charged word dictionary (overrides config)")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintf(os.Stderr, "%v\nusage: jaundice [flags] URL [URL ...]\n", jaundice.ErrNoArticleURLs)
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *dictPath != "" {
		cfg.Dictionary.Path = *dictPath
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	normalizer := morph.New()
	words, err := charged.Load(cfg.Dictionary.Path, normalizer.Normalize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load charged dictionary failed: %v\n", err)
		os.Exit(1)
	}

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

	orchestrator := pipeline.New(
		admission.New(cfg.Fetch.MaxConcurrent),
		nil,
		collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.FetchTimeout(),
		}),
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

	results := orchestrator.ProcessBatch(context.Background(), urls)

	failed := false
	for _, res := range results {
		fmt.Printf("\nURL: %s\n", res.URL)
		if res.Status == jaundice.StatusOK {
			fmt.Printf("Score: %.2f%% (words: %d)\n", *res.Score, *res.WordCount)
		} else {
			failed = true
			fmt.Printf("Status: %s\n", res.Status)
		}
	}
	if failed {
		os.Exit(1)
	}
}
