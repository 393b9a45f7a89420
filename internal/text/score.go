// Package text holds the pure scoring function for charged-word density.
package text

import (
	"math"

	"github.com/akarev/jaundice-rate/internal/charged"
)

// JaundiceRate returns the percentage of words present in the charged set,
// rounded to two decimals. An empty word list scores 0.
func JaundiceRate(words []string, set *charged.Set) float64 {
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, w := range words {
		if set.Contains(w) {
			matched++
		}
	}
	rate := 100 * float64(matched) / float64(len(words))
	return math.Round(rate*100) / 100
}
