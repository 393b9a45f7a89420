// Package readability extracts article plaintext from raw HTML using
// go-readability, with a goquery paragraph fallback for pages the content
// scorer rejects.
package readability

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	goreadability "github.com/go-shiori/go-readability"

	"github.com/akarev/jaundice-rate/internal/jaundice"
)

var whitespace = regexp.MustCompile(`\s+`)

// Sanitizer implements jaundice.Sanitizer. It is stateless and safe for
// concurrent use.
type Sanitizer struct{}

// New creates a Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize returns the article body as plaintext, or ErrArticleNotFound when
// the page carries no recognizable article content. A page without a single
// paragraph block is never an article, no matter what the content scorer
// salvages from its navigation chrome.
func (s *Sanitizer) Sanitize(rawURL string, html []byte) (string, error) {
	paragraphs, err := paragraphText(html)
	if err != nil || paragraphs == "" {
		return "", fmt.Errorf("sanitize %s: %w", rawURL, jaundice.ErrArticleNotFound)
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		pageURL = &url.URL{}
	}

	parser := goreadability.NewParser()
	article, parseErr := parser.Parse(bytes.NewReader(html), pageURL)
	if parseErr == nil {
		if text := collapse(article.TextContent); text != "" {
			return text, nil
		}
	}
	return paragraphs, nil
}

// paragraphText flattens the page's paragraph nodes. It doubles as the
// article presence check and as the extraction fallback for short pages the
// content scorer rejects.
func paragraphText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style,noscript").Remove()

	var parts []string
	doc.Find("article p, p").Each(func(_ int, sel *goquery.Selection) {
		if text := collapse(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " "), nil
}

func collapse(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
