package voice

import "strings"

// Normalize case-folds and trims a transcript. Punctuation is kept because the
// pattern bank relies on sentence terminators to end a target phrase.
func Normalize(transcript string) string {
	return strings.ToLower(strings.TrimSpace(transcript))
}
