package voice

import (
	"strings"
	"unicode/utf8"
)

const (
	trailingPunctuation = ".,!?"
	minEntityLength     = 2
)

var fillerWords = []string{"the", "a", "an"}

func isFiller(word string) bool {
	for _, f := range fillerWords {
		if strings.EqualFold(word, f) {
			return true
		}
	}
	return false
}

// CleanEntity tidies an extracted drone or target name. It reports false when
// nothing usable is left: a single character is treated as a parse error.
//
// Cleaning runs to a fixed point, so CleanEntity(CleanEntity(x)) == CleanEntity(x).
func CleanEntity(raw string) (string, bool) {
	s := raw
	for {
		next := cleanPass(s)
		if next == s {
			break
		}
		s = next
	}
	if utf8.RuneCountInString(s) < minEntityLength {
		return "", false
	}
	return s, true
}

func cleanPass(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), trailingPunctuation)
	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if !isFiller(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func cleanPtr(raw string) *string {
	s, ok := CleanEntity(raw)
	if !ok {
		return nil
	}
	return &s
}
