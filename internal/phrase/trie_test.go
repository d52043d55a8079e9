package phrase

import "testing"

func TestPhraseWithStopwordSkips(t *testing.T) {
	trie := New()
	trie.Insert([]string{"son", "of", "a", "bitch"})

	stopwords := map[string]bool{"of": true, "the": true, "a": true, "an": true, "and": true, "to": true}

	text := []rune("you are a son of the a   bitch indeed")
	tokens := Tokenize(text)

	matches := trie.FindAll(tokens, stopwords, 2)
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match, got %v", matches)
	}
	got := string(text[matches[0].Start : matches[0].End+1])
	if got != "son of the a   bitch" {
		t.Errorf("unexpected span text: %q", got)
	}
}

func TestPhraseExceedsMaxSkips(t *testing.T) {
	trie := New()
	trie.Insert([]string{"son", "of", "a", "bitch"})
	stopwords := map[string]bool{"of": true, "the": true, "a": true}

	text := []rune("son of the the the a bitch")
	tokens := Tokenize(text)

	matches := trie.FindAll(tokens, stopwords, 2)
	if len(matches) != 0 {
		t.Fatalf("expected no match when skip budget is exceeded, got %v", matches)
	}
}

func TestPhraseRemove(t *testing.T) {
	trie := New()
	trie.Insert([]string{"son", "of", "a", "bitch"})
	trie.Remove([]string{"son", "of", "a", "bitch"})

	tokens := Tokenize([]rune("son of a bitch"))
	matches := trie.FindAll(tokens, nil, 0)
	if len(matches) != 0 {
		t.Fatalf("expected no matches after removal, got %v", matches)
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize([]rune("hello, world_1!"))
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Text != "hello" || tokens[1].Text != "world_1" {
		t.Errorf("unexpected tokens: %+v", tokens)
	}
}
