// Package analysis executes CPU-bound tokenization and scoring on a bounded
// worker pool so it never stalls the goroutines coordinating network I/O.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/akarev/jaundice-rate/internal/charged"
	"github.com/akarev/jaundice-rate/internal/clock/system"
	"github.com/akarev/jaundice-rate/internal/jaundice"
	"github.com/akarev/jaundice-rate/internal/text"
)

// ErrPoolClosed is returned by Analyze after Close.
var ErrPoolClosed = errors.New("analysis pool closed")

// Tokenizer produces the normalized word bag for one document.
type Tokenizer interface {
	Words(text string) []string
}

// Config controls Pool sizing.
type Config struct {
	PoolSize   int
	QueueDepth int
}

// Pool is a fixed-size worker pool. Each worker owns its own lazily built
// Tokenizer; tokenizer state is never shared across workers.
type Pool struct {
	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	clock     jaundice.Clock
	logger    *zap.Logger
}

type job struct {
	doc   string
	words *charged.Set
	// Buffered so an abandoned job never blocks its worker.
	reply chan jaundice.Analysis
}

// NewPool starts the workers. newTokenizer is invoked at most once per worker,
// on that worker's first job.
func NewPool(cfg Config, newTokenizer func() Tokenizer, clock jaundice.Clock, logger *zap.Logger) *Pool {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 64
	}
	if clock == nil {
		clock = system.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		jobs:   make(chan job, cfg.QueueDepth),
		done:   make(chan struct{}),
		clock:  clock,
		logger: logger,
	}
	for i := 0; i < cfg.PoolSize; i++ {
		p.wg.Add(1)
		go p.worker(i, newTokenizer)
	}
	return p
}

// Analyze dispatches one document to the pool and waits for the outcome or
// the context to end. On timeout the in-flight job is abandoned, not killed;
// the worker finishes and discards its reply.
func (p *Pool) Analyze(ctx context.Context, doc string, words *charged.Set) (jaundice.Analysis, error) {
	j := job{doc: doc, words: words, reply: make(chan jaundice.Analysis, 1)}

	select {
	case <-ctx.Done():
		return jaundice.Analysis{}, fmt.Errorf("analysis dispatch: %w", ctx.Err())
	case <-p.done:
		return jaundice.Analysis{}, ErrPoolClosed
	case p.jobs <- j:
	}

	select {
	case <-ctx.Done():
		return jaundice.Analysis{}, fmt.Errorf("analysis wait: %w", ctx.Err())
	case <-p.done:
		return jaundice.Analysis{}, ErrPoolClosed
	case out := <-j.reply:
		return out, nil
	}
}

// Close stops the workers after in-flight jobs finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

func (p *Pool) worker(index int, newTokenizer func() Tokenizer) {
	defer p.wg.Done()
	var tok Tokenizer
	for {
		select {
		case <-p.done:
			return
		case j := <-p.jobs:
			if tok == nil {
				tok = newTokenizer()
				p.logger.Debug("tokenizer initialized", zap.Int("worker", index))
			}
			j.reply <- p.score(tok, j)
		}
	}
}

func (p *Pool) score(tok Tokenizer, j job) jaundice.Analysis {
	start := p.clock.Now()
	bag := tok.Words(j.doc)
	rate := text.JaundiceRate(bag, j.words)
	elapsed := p.clock.Now().Sub(start).Seconds()
	return jaundice.Analysis{
		Score:     rate,
		WordCount: len(bag),
		Elapsed:   math.Round(elapsed*10000) / 10000,
	}
}
