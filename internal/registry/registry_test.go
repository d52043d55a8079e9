package registry

import (
	"testing"

	"github.com/yourusername/wordguard/internal/matcher"
	"github.com/yourusername/wordguard/internal/normalize"
	"github.com/yourusername/wordguard/internal/packs"
)

func defaultNormOpts() normalize.Options {
	return normalize.Options{
		StripInvisible:    true,
		StripDiacritics:   true,
		ConfusableMapping: true,
		LengthPreserving:  true,
	}
}

func TestLoadUnknownCodeIsEmptyNotError(t *testing.T) {
	r := New(packs.NewMemory(nil), matcher.AlgorithmTrie, defaultNormOpts(), Inflection{})
	r.Load([]string{"xx"})

	words, ok := r.WordsFor("xx")
	if !ok {
		t.Fatal("expected xx to be loaded (even if empty)")
	}
	if len(words) != 0 {
		t.Errorf("expected no words for unknown code, got %v", words)
	}
}

func TestAddWordWithInflection(t *testing.T) {
	r := New(packs.NewMemory(nil), matcher.AlgorithmTrie, defaultNormOpts(), Inflection{
		Enabled:  true,
		Suffixes: []string{"s", "ing"},
	})
	r.AddWord("curse", "en")

	words, _ := r.WordsFor("en")
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	for _, want := range []string{"curse", "curses", "curseing"} {
		if !set[want] {
			t.Errorf("expected %q in word set, got %v", want, words)
		}
	}
}

func TestSetAlgorithmRebuildsMatcher(t *testing.T) {
	r := New(packs.Bootstrap(), matcher.AlgorithmTrie, defaultNormOpts(), Inflection{})
	r.Load([]string{"en"})

	m, ok := r.MatcherFor("en")
	if !ok {
		t.Fatal("expected en to be loaded")
	}
	if len(m.FindAll([]rune("you are a bitch"), false, nil)) == 0 {
		t.Fatal("expected a trie match before switching algorithm")
	}

	r.SetAlgorithm(matcher.AlgorithmAho)
	m2, _ := r.MatcherFor("en")
	if len(m2.FindAll([]rune("you are a bitch"), false, nil)) == 0 {
		t.Fatal("expected an aho match after switching algorithm")
	}
}

func TestRemoveWord(t *testing.T) {
	r := New(packs.Bootstrap(), matcher.AlgorithmTrie, defaultNormOpts(), Inflection{})
	r.Load([]string{"en"})
	r.RemoveWord("bitch", "en")

	m, _ := r.MatcherFor("en")
	if len(m.FindAll([]rune("you are a bitch"), false, nil)) != 0 {
		t.Error("expected no match after removing word")
	}
}

func TestGermanEszettExpansion(t *testing.T) {
	r := New(packs.Bootstrap(), matcher.AlgorithmTrie, defaultNormOpts(), Inflection{})
	r.Load([]string{"de"})

	words, _ := r.WordsFor("de")
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	if !set["scheiße"] || !set["scheisse"] {
		t.Errorf("expected both eszett and ss forms, got %v", words)
	}
}
