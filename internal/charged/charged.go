// Package charged loads the charged-word dictionary into an immutable set.
package charged

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Set is a read-only collection of normalized charged words. It is built once
// before any batch starts and shared by all concurrent tasks without locking.
type Set struct {
	words map[string]struct{}
}

// NewSet builds a Set from pre-normalized words.
func NewSet(words ...string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		s.words[w] = struct{}{}
	}
	return s
}

// Contains reports whether the word is in the set. Matching is exact; callers
// must normalize words the same way the set was normalized.
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[word]
	return ok
}

// Len returns the number of distinct words in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Load reads a newline-delimited word list from path. Blank lines are skipped.
// When normalize is non-nil each word passes through it before insertion so
// that membership tests stay exact post-normalization.
func Load(path string, normalize func(string) string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return Read(f, normalize)
}

// Read builds a Set from a newline-delimited reader.
func Read(r io.Reader, normalize func(string) string) (*Set, error) {
	s := &Set{words: make(map[string]struct{})}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if normalize != nil {
			word = normalize(word)
		}
		if word == "" {
			continue
		}
		s.words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return s, nil
}
