// Package morph normalizes document text into a bag of canonical word forms.
//
// Tokenization is cheap; stemming and language detection are the CPU-heavy
// parts, which is why callers run this inside the analysis worker pool rather
// than on the orchestration goroutines.
package morph

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"github.com/pemistahl/lingua-go"
)

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// Normalizer lowercases, strips punctuation, and stems words to a canonical
// form. Construction loads lingua language models, so instances are built once
// per worker and reused; a built Normalizer is safe for sequential reuse but
// is not shared across workers.
type Normalizer struct {
	detector lingua.LanguageDetector
}

// New builds a Normalizer detecting between English and Russian.
func New() *Normalizer {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Russian).
		Build()
	return &Normalizer{detector: detector}
}

// Words splits text into normalized word forms. Every token survives; word
// count therefore equals the token count of the cleaned text.
func (n *Normalizer) Words(text string) []string {
	clean := strings.ToLower(punctuation.ReplaceAllString(text, " "))
	fields := strings.Fields(clean)
	if len(fields) == 0 {
		return nil
	}
	lang := n.stemLanguage(text)
	words := make([]string, 0, len(fields))
	for _, token := range fields {
		words = append(words, stem(token, lang))
	}
	return words
}

// Normalize canonicalizes a single word, e.g. a charged-dictionary entry.
// Single words are too short for statistical detection, so the stemmer
// language follows the script.
func (n *Normalizer) Normalize(word string) string {
	clean := strings.ToLower(strings.TrimSpace(punctuation.ReplaceAllString(word, " ")))
	if clean == "" {
		return ""
	}
	return stem(clean, scriptLanguage(clean))
}

func (n *Normalizer) stemLanguage(text string) string {
	if n.detector != nil {
		if language, exists := n.detector.DetectLanguageOf(text); exists {
			switch language {
			case lingua.Russian:
				return "russian"
			case lingua.English:
				return "english"
			}
		}
	}
	return scriptLanguage(text)
}

func scriptLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return "russian"
		}
	}
	return "english"
}

func stem(word, language string) string {
	stemmed, err := snowball.Stem(word, language, false)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
