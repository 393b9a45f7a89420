package jaundice

import "errors"

// Status classifies the outcome of processing a single article URL.
type Status string

// Status values reported in Result records.
const (
	StatusOK            Status = "OK"
	StatusTimeout       Status = "TIMEOUT"
	StatusFetchError    Status = "FETCH_ERROR"
	StatusParsingError  Status = "PARSING_ERROR"
	StatusInternalError Status = "INTERNAL_ERROR"
)

// ErrArticleNotFound is returned by a Sanitizer when the page carries no
// recognizable article body.
var ErrArticleNotFound = errors.New("article not found")

// ErrNoArticleURLs is reported when a batch request names no URLs at all.
var ErrNoArticleURLs = errors.New("no article urls provided")

// Result is the per-URL outcome of a batch. Score, WordCount and Duration are
// set only when Status is OK. Duration is the analysis wall time in seconds.
type Result struct {
	URL       string   `json:"url"`
	Status    Status   `json:"status"`
	Score     *float64 `json:"score,omitempty"`
	WordCount *int     `json:"words_count,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
}

// OKResult builds a successful Result.
func OKResult(url string, score float64, wordCount int, durationSeconds float64) Result {
	return Result{
		URL:       url,
		Status:    StatusOK,
		Score:     &score,
		WordCount: &wordCount,
		Duration:  &durationSeconds,
	}
}

// Analysis is the outcome of scoring one document against the charged-word set.
type Analysis struct {
	Score     float64
	WordCount int
	Elapsed   float64
}
