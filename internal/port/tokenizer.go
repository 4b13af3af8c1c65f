package port

// TokenCounter measures text against a tokenizer. Counts are not additive
// across concatenation, so callers re-measure joined strings.
type TokenCounter interface {
	CountTokens(text string) int
}
