package phrase

import "strings"

// Match is a phrase match span, in code-point positions of the text that
// was searched. Both bounds are inclusive.
type Match struct {
	Start  int
	End    int
	Phrase string
}

type phraseNode struct {
	children map[string]*phraseNode
	terminal bool
}

// Trie is a token-keyed tree of phrases (each phrase a sequence of
// already-normalized tokens).
type Trie struct {
	root *phraseNode
}

// New returns an empty phrase trie.
func New() *Trie {
	return &Trie{root: &phraseNode{children: make(map[string]*phraseNode)}}
}

// Insert adds a phrase, given as its sequence of tokens. The last token's
// node is marked terminal.
func (t *Trie) Insert(tokens []string) {
	if len(tokens) == 0 {
		return
	}
	node := t.root
	for _, tok := range tokens {
		child, ok := node.children[tok]
		if !ok {
			child = &phraseNode{children: make(map[string]*phraseNode)}
			node.children[tok] = child
		}
		node = child
	}
	node.terminal = true
}

// Remove un-marks a phrase's terminal node if the exact token sequence is
// present. It does not prune now-dead branches; a later insert along the
// same path reuses them.
func (t *Trie) Remove(tokens []string) {
	if len(tokens) == 0 {
		return
	}
	node := t.root
	for _, tok := range tokens {
		child, ok := node.children[tok]
		if !ok {
			return
		}
		node = child
	}
	node.terminal = false
}

// FindAll scans tok for phrase matches. From each start token it walks
// children by consecutive tokens; when the next token isn't a child but is
// a stop word, at least one phrase token has already matched, and fewer
// than maxSkips skips have been spent on this attempt, it's consumed
// without advancing the trie node. The first
// terminal reached ends the attempt (earliest match wins), translated back
// to character offsets via the token table.
func (t *Trie) FindAll(tokens []Token, stopwords map[string]bool, maxSkips int) []Match {
	var matches []Match
	n := len(tokens)

	for start := 0; start < n; start++ {
		node := t.root
		skips := 0
		j := start
		matchEnd := -1

		for j < n {
			child, ok := node.children[tokens[j].Text]
			if ok {
				node = child
				j++
				if node.terminal {
					matchEnd = j - 1
					break
				}
				continue
			}
			if node != t.root && stopwords[tokens[j].Text] && skips < maxSkips {
				skips++
				j++
				continue
			}
			break
		}

		if matchEnd >= 0 {
			startTok := tokens[start]
			endTok := tokens[matchEnd]
			matches = append(matches, Match{
				Start:  startTok.Start,
				End:    endTok.EndExclusive - 1,
				Phrase: joinTokens(tokens[start : matchEnd+1]),
			})
		}
	}

	return matches
}

func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}
