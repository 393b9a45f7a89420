// Package pipeline implements the article processing pipeline: per-URL tasks
// coordinating fetch, sanitize, and analyze stages, and the batch orchestrator
// fanning them out and joining their results.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akarev/jaundice-rate/internal/admission"
	"github.com/akarev/jaundice-rate/internal/charged"
	"github.com/akarev/jaundice-rate/internal/clock/system"
	"github.com/akarev/jaundice-rate/internal/jaundice"
	"github.com/akarev/jaundice-rate/internal/metrics"
	"github.com/akarev/jaundice-rate/internal/policy/hostlimit"
)

// Config carries the per-stage deadlines.
type Config struct {
	FetchTimeout   time.Duration
	AnalyzeTimeout time.Duration
}

// Orchestrator runs batches of article tasks. Tasks are fully isolated: a
// failing URL never aborts its siblings, every failure is folded into that
// task's Result.
type Orchestrator struct {
	gate      *admission.Gate
	hostLimit *hostlimit.Limiter
	fetcher   jaundice.Fetcher
	sanitizer jaundice.Sanitizer
	analyzer  jaundice.Analyzer
	words     *charged.Set
	clock     jaundice.Clock
	cfg       Config
	logger    *zap.Logger
}

// New constructs an Orchestrator. hostLimit may be nil to disable per-host
// politeness waits.
func New(
	gate *admission.Gate,
	hostLimit *hostlimit.Limiter,
	fetcher jaundice.Fetcher,
	sanitizer jaundice.Sanitizer,
	analyzer jaundice.Analyzer,
	words *charged.Set,
	clock jaundice.Clock,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.AnalyzeTimeout <= 0 {
		cfg.AnalyzeTimeout = 3 * time.Second
	}
	if clock == nil {
		clock = system.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		gate:      gate,
		hostLimit: hostLimit,
		fetcher:   fetcher,
		sanitizer: sanitizer,
		analyzer:  analyzer,
		words:     words,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// ProcessBatch runs one task per URL concurrently and returns one Result per
// URL, in input order. The orchestrator imposes no batch-level concurrency
// cap beyond the admission gate's network ceiling.
func (o *Orchestrator) ProcessBatch(ctx context.Context, urls []string) []jaundice.Result {
	results := make([]jaundice.Result, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i] = o.processArticle(ctx, url)
		}(i, url)
	}
	wg.Wait()
	return results
}

// processArticle drives one URL through fetch, sanitize, and analyze, mapping
// every stage outcome onto exactly one Status. It never returns an error:
// unexpected failures, including panics, become INTERNAL_ERROR.
func (o *Orchestrator) processArticle(ctx context.Context, url string) (res jaundice.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("article task panic",
				zap.String("url", url),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			res = jaundice.Result{URL: url, Status: jaundice.StatusInternalError}
		}
		metrics.ObserveArticle(string(res.Status))
	}()

	html, err := o.fetch(ctx, url)
	if err != nil {
		return jaundice.Result{URL: url, Status: o.classifyFetch(url, err)}
	}

	text, err := o.sanitizer.Sanitize(url, html)
	if err != nil {
		if errors.Is(err, jaundice.ErrArticleNotFound) {
			o.logger.Debug("no article body", zap.String("url", url))
			return jaundice.Result{URL: url, Status: jaundice.StatusParsingError}
		}
		o.logger.Error("sanitize failed", zap.String("url", url), zap.Error(err))
		return jaundice.Result{URL: url, Status: jaundice.StatusInternalError}
	}

	analyzeCtx, cancel := context.WithTimeout(ctx, o.cfg.AnalyzeTimeout)
	defer cancel()
	out, err := o.analyzer.Analyze(analyzeCtx, text, o.words)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			o.logger.Debug("analysis timed out", zap.String("url", url))
			return jaundice.Result{URL: url, Status: jaundice.StatusTimeout}
		}
		o.logger.Error("analysis failed", zap.String("url", url), zap.Error(err))
		return jaundice.Result{URL: url, Status: jaundice.StatusInternalError}
	}
	metrics.ObserveAnalysis(out.Elapsed)

	return jaundice.OKResult(url, out.Score, out.WordCount, out.Elapsed)
}

// fetch acquires an admission slot, applies the optional host limit, and runs
// the fetcher under the fetch deadline. The slot is released as soon as the
// fetch finishes, before any CPU-bound work starts.
func (o *Orchestrator) fetch(ctx context.Context, url string) ([]byte, error) {
	waitStart := o.clock.Now()
	if err := o.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	metrics.ObserveAdmissionWait(o.clock.Now().Sub(waitStart))
	metrics.IncActiveFetches()
	defer func() {
		o.gate.Release()
		metrics.DecActiveFetches()
	}()

	if err := o.hostLimit.Wait(ctx, url); err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()
	start := o.clock.Now()
	body, err := o.fetcher.Fetch(fetchCtx, url)
	metrics.ObserveFetch(o.clock.Now().Sub(start))
	return body, err
}

func (o *Orchestrator) classifyFetch(url string, err error) jaundice.Status {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		o.logger.Debug("fetch timed out", zap.String("url", url))
		return jaundice.StatusTimeout
	case errors.Is(err, context.Canceled):
		o.logger.Error("fetch canceled", zap.String("url", url), zap.Error(err))
		return jaundice.StatusInternalError
	default:
		o.logger.Debug("fetch failed", zap.String("url", url), zap.Error(err))
		return jaundice.StatusFetchError
	}
}
