package braid

import "unicode/utf8"

// TokenEstimator approximates the token count of accumulated text.
// Estimation is opaque to the reducer: it runs the estimator over the
// full text after each delta and stores the result, nothing more.
// Callers with a real tokenizer inject it via WithTokenEstimator.
type TokenEstimator func(text string) int

// EstimateTokens is the default estimator: roughly one token per four
// characters, rounded up. Counts runes, not bytes, so multi-byte text
// is not over-charged.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
