package jaundice

import (
	"context"
	"time"

	"github.com/akarev/jaundice-rate/internal/charged"
)

// Fetcher downloads one URL and returns the raw response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Sanitizer extracts article plaintext from raw HTML. It returns
// ErrArticleNotFound when no article body is detected.
type Sanitizer interface {
	Sanitize(url string, html []byte) (string, error)
}

// Analyzer tokenizes a document and scores it against the charged-word set.
// Implementations run the CPU-bound work off the calling goroutine.
type Analyzer interface {
	Analyze(ctx context.Context, text string, words *charged.Set) (Analysis, error)
}

// BatchProcessor runs one batch of URLs to completion.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, urls []string) []Result
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
