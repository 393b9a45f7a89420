package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akarev/jaundice-rate/internal/admission"
	"github.com/akarev/jaundice-rate/internal/charged"
	"github.com/akarev/jaundice-rate/internal/jaundice"
	"github.com/akarev/jaundice-rate/internal/text"
)

type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	delay time.Duration

	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		prev := f.maxSeen.Load()
		if cur <= prev || f.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if page, ok := f.pages[url]; ok {
		return []byte(page), nil
	}
	return nil, errors.New("connection refused")
}

type fakeSanitizer struct {
	notFound map[string]bool
	panicOn  string
}

func (s *fakeSanitizer) Sanitize(url string, html []byte) (string, error) {
	if url == s.panicOn {
		panic("sanitizer exploded")
	}
	if s.notFound[url] {
		return "", jaundice.ErrArticleNotFound
	}
	return string(html), nil
}

type fakeAnalyzer struct {
	delay time.Duration
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, doc string, words *charged.Set) (jaundice.Analysis, error) {
	if a.delay > 0 {
		select {
		case <-ctx.Done():
			return jaundice.Analysis{}, ctx.Err()
		case <-time.After(a.delay):
		}
	}
	bag := strings.Fields(strings.ToLower(doc))
	return jaundice.Analysis{
		Score:     text.JaundiceRate(bag, words),
		WordCount: len(bag),
		Elapsed:   0.001,
	}, nil
}

func newOrchestrator(fetcher jaundice.Fetcher, sanitizer jaundice.Sanitizer, analyzer jaundice.Analyzer, capacity int, cfg Config) *Orchestrator {
	return New(
		admission.New(capacity),
		nil,
		fetcher,
		sanitizer,
		analyzer,
		charged.NewSet("bad"),
		nil,
		cfg,
		nil,
	)
}

func TestProcessBatchScoresArticle(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://valid.example/a": "this is bad bad good",
	}}
	o := newOrchestrator(fetcher, &fakeSanitizer{}, &fakeAnalyzer{}, 10, Config{})

	results := o.ProcessBatch(context.Background(), []string{"https://valid.example/a"})
	require.Len(t, results, 1)

	res := results[0]
	require.Equal(t, "https://valid.example/a", res.URL)
	require.Equal(t, jaundice.StatusOK, res.Status)
	require.NotNil(t, res.Score)
	require.InDelta(t, 40.0, *res.Score, 1e-9)
	require.NotNil(t, res.WordCount)
	require.Equal(t, 5, *res.WordCount)
	require.NotNil(t, res.Duration)
}

func TestProcessBatchPreservesInputOrder(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://ok.example/1",
		"https://down.example/2",
		"https://noarticle.example/3",
		"https://ok.example/4",
	}
	fetcher := &fakeFetcher{
		pages: map[string]string{
			urls[0]: "good news only",
			urls[2]: "<html>menu</html>",
			urls[3]: "bad news",
		},
		delay: 10 * time.Millisecond,
	}
	sanitizer := &fakeSanitizer{notFound: map[string]bool{urls[2]: true}}
	o := newOrchestrator(fetcher, sanitizer, &fakeAnalyzer{}, 2, Config{})

	results := o.ProcessBatch(context.Background(), urls)
	require.Len(t, results, len(urls))
	for i, url := range urls {
		require.Equal(t, url, results[i].URL)
	}
	require.Equal(t, jaundice.StatusOK, results[0].Status)
	require.Equal(t, jaundice.StatusFetchError, results[1].Status)
	require.Equal(t, jaundice.StatusParsingError, results[2].Status)
	require.Equal(t, jaundice.StatusOK, results[3].Status)
}

func TestProcessBatchEmpty(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(&fakeFetcher{}, &fakeSanitizer{}, &fakeAnalyzer{}, 1, Config{})
	results := o.ProcessBatch(context.Background(), nil)
	require.Empty(t, results)
}

func TestFetchTimeoutYieldsTimeoutStatus(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		pages: map[string]string{"https://slow.example": "never delivered"},
		delay: 500 * time.Millisecond,
	}
	o := newOrchestrator(fetcher, &fakeSanitizer{}, &fakeAnalyzer{}, 1, Config{FetchTimeout: 30 * time.Millisecond})

	results := o.ProcessBatch(context.Background(), []string{"https://slow.example"})
	require.Equal(t, jaundice.StatusTimeout, results[0].Status)
	require.Nil(t, results[0].Score)
}

func TestAnalysisTimeoutYieldsTimeoutStatus(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{"https://big.example": "huge document"}}
	analyzer := &fakeAnalyzer{delay: 500 * time.Millisecond}
	o := newOrchestrator(fetcher, &fakeSanitizer{}, analyzer, 1, Config{AnalyzeTimeout: 30 * time.Millisecond})

	results := o.ProcessBatch(context.Background(), []string{"https://big.example"})
	require.Equal(t, jaundice.StatusTimeout, results[0].Status)
}

func TestUnreachableHostYieldsFetchError(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(&fakeFetcher{}, &fakeSanitizer{}, &fakeAnalyzer{}, 1, Config{})
	results := o.ProcessBatch(context.Background(), []string{"https://unreachable.example"})
	require.Equal(t, jaundice.StatusFetchError, results[0].Status)
}

func TestPanicIsolatedToOneTask(t *testing.T) {
	t.Parallel()

	urls := []string{"https://boom.example", "https://fine.example"}
	fetcher := &fakeFetcher{pages: map[string]string{
		urls[0]: "anything",
		urls[1]: "calm text",
	}}
	sanitizer := &fakeSanitizer{panicOn: urls[0]}
	o := newOrchestrator(fetcher, sanitizer, &fakeAnalyzer{}, 2, Config{})

	results := o.ProcessBatch(context.Background(), urls)
	require.Equal(t, jaundice.StatusInternalError, results[0].Status)
	require.Equal(t, jaundice.StatusOK, results[1].Status)
}

func TestAdmissionGateBoundsConcurrentFetches(t *testing.T) {
	t.Parallel()

	const capacity = 2
	urls := make([]string, 8)
	pages := make(map[string]string, len(urls))
	for i := range urls {
		urls[i] = "https://many.example/" + string(rune('a'+i))
		pages[urls[i]] = "plain text"
	}
	fetcher := &fakeFetcher{pages: pages, delay: 20 * time.Millisecond}
	o := newOrchestrator(fetcher, &fakeSanitizer{}, &fakeAnalyzer{}, capacity, Config{})

	results := o.ProcessBatch(context.Background(), urls)
	require.Len(t, results, len(urls))
	for _, res := range results {
		require.Equal(t, jaundice.StatusOK, res.Status)
	}
	require.LessOrEqual(t, fetcher.maxSeen.Load(), int32(capacity))
}

func TestRepeatedBatchesAreIdempotent(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{"https://stable.example": "bad bad good"}}
	o := newOrchestrator(fetcher, &fakeSanitizer{}, &fakeAnalyzer{}, 4, Config{})

	first := o.ProcessBatch(context.Background(), []string{"https://stable.example"})
	second := o.ProcessBatch(context.Background(), []string{"https://stable.example"})
	require.Equal(t, first[0].Status, second[0].Status)
	require.InDelta(t, *first[0].Score, *second[0].Score, 1e-9)
	require.Equal(t, *first[0].WordCount, *second[0].WordCount)
}
