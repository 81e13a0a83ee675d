package rank

import (
	"strings"

	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
)

// LongestDigits keeps the candidates made only of ASCII digits once
// surrounding whitespace is trimmed, and returns the longest. The earliest
// wins a tie.
func LongestDigits(candidates []string) card.Rank {
	best := ""
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if !isDigits(c) {
			continue
		}
		if len(c) > len(best) {
			best = c
		}
	}
	return card.Rank(best)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
