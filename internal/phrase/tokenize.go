// Package phrase implements the token-keyed phrase matcher: multi-word
// entries matched with stop-word skipping between tokens.
package phrase

import "github.com/yourusername/wordguard/internal/matcher"

// Token is a maximal run of word characters in already-normalized text,
// carrying the code-point offsets it occupies.
type Token struct {
	Text         string
	Start        int // inclusive
	EndExclusive int
}

// Tokenize splits normalized text into tokens, skipping any run of
// non-word characters between them.
func Tokenize(text []rune) []Token {
	var tokens []Token
	n := len(text)
	i := 0
	for i < n {
		if !matcher.IsWordChar(text[i]) {
			i++
			continue
		}
		start := i
		for i < n && matcher.IsWordChar(text[i]) {
			i++
		}
		tokens = append(tokens, Token{Text: string(text[start:i]), Start: start, EndExclusive: i})
	}
	return tokens
}
