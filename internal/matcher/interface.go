// Package matcher implements the exact multi-pattern search stage: a
// prefix-tree (Trie) backend and an Aho-Corasick automaton backend behind a
// single capability so the language registry can swap between them without
// the orchestrator caring which is active.
package matcher

import "unicode"

// Match is a single exact-match span, in code-point positions of the text
// that was searched. Both bounds are inclusive.
type Match struct {
	Start int
	End   int
	Word  string
}

// Matcher is the tagged-variant capability both backends satisfy:
// bulk-load patterns, finalize (a no-op for Trie, automaton construction
// for Aho-Corasick), then search.
type Matcher interface {
	InsertAll(words []string)
	Finalize()
	FindAll(text []rune, wholeWordsOnly bool, separators map[rune]bool) []Match
}

// Algorithm names the matcher backend a language's entry is compiled with.
type Algorithm string

const (
	AlgorithmTrie Algorithm = "trie"
	AlgorithmAho  Algorithm = "aho"
)

// New constructs a fresh, empty matcher for the given algorithm.
func New(alg Algorithm) Matcher {
	if alg == AlgorithmAho {
		return NewAhoCorasick()
	}
	return NewTrie()
}

// IsWordChar reports whether r counts as a word character for whole-word
// boundary checks: a Unicode letter, digit, or underscore.
func IsWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
