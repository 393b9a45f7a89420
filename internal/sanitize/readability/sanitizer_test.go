package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akarev/jaundice-rate/internal/jaundice"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Shocking news</title></head><body>
<article>
<h1>Shocking news</h1>
<p>this is bad bad good</p>
<p>more detail about the terrible event</p>
</article>
<script>trackEverything();</script>
</body></html>`

func TestSanitizeExtractsPlaintext(t *testing.T) {
	t.Parallel()

	s := New()
	text, err := s.Sanitize("https://news.example/a", []byte(articleHTML))
	require.NoError(t, err)
	require.Contains(t, text, "this is bad bad good")
	require.Contains(t, text, "terrible event")
	require.NotContains(t, text, "trackEverything")
	require.False(t, strings.Contains(text, "\n"))
}

func TestSanitizeNoArticleBody(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.Sanitize("https://news.example/empty", []byte("<html><body><div>nav</div></body></html>"))
	require.ErrorIs(t, err, jaundice.ErrArticleNotFound)
}

func TestSanitizeNavigationOnlyPage(t *testing.T) {
	t.Parallel()

	// Valid HTML with plenty of text but no paragraph blocks must not be
	// scored as an article.
	page := `<!DOCTYPE html>
<html><head><title>Section index</title></head><body>
<nav><ul>
<li><a href="/politics">politics coverage and terrible scandals</a></li>
<li><a href="/economy">economy news with shocking numbers</a></li>
<li><a href="/sport">sport results</a></li>
</ul></nav>
<div class="footer">contacts advertising subscriptions</div>
</body></html>`

	s := New()
	_, err := s.Sanitize("https://news.example/section", []byte(page))
	require.ErrorIs(t, err, jaundice.ErrArticleNotFound)
}

func TestSanitizeEmptyDocument(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.Sanitize("https://news.example/blank", nil)
	require.ErrorIs(t, err, jaundice.ErrArticleNotFound)
}

func TestSanitizeInvalidURLStillParses(t *testing.T) {
	t.Parallel()

	s := New()
	text, err := s.Sanitize("::not-a-url::", []byte(articleHTML))
	require.NoError(t, err)
	require.Contains(t, text, "bad bad")
}
