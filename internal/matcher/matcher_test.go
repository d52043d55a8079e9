package matcher

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sortMatches(m []Match) {
	sort.Slice(m, func(i, j int) bool {
		if m[i].Start != m[j].Start {
			return m[i].Start < m[j].Start
		}
		return m[i].End < m[j].End
	})
}

func newBuilt(alg Algorithm, words ...string) Matcher {
	m := New(alg)
	m.InsertAll(words)
	m.Finalize()
	return m
}

func TestExactMatchBasic(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmTrie, AlgorithmAho} {
		m := newBuilt(alg, "bitch", "shit")
		got := m.FindAll([]rune("you are a bitch"), false, nil)
		sortMatches(got)
		want := []Match{{Start: 10, End: 14, Word: "bitch"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", alg, diff)
		}
	}
}

func TestWholeWordBoundary(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmTrie, AlgorithmAho} {
		m := newBuilt(alg, "ass")
		got := m.FindAll([]rune("assassin"), true, nil)
		if len(got) != 0 {
			t.Errorf("%s: expected no whole-word match inside assassin, got %v", alg, got)
		}
		got = m.FindAll([]rune("you are an ass"), true, nil)
		if len(got) != 1 || got[0].Word != "ass" {
			t.Errorf("%s: expected one whole-word match, got %v", alg, got)
		}
	}
}

func TestSeparatorTransparency(t *testing.T) {
	separators := map[rune]bool{' ': true, '.': true, '-': true, '_': true, '*': true}
	for _, alg := range []Algorithm{AlgorithmTrie, AlgorithmAho} {
		m := newBuilt(alg, "shit")
		got := m.FindAll([]rune("s*h-i t happens"), false, separators)
		if len(got) != 1 {
			t.Fatalf("%s: expected exactly one match, got %v", alg, got)
		}
		if got[0].Start != 0 || got[0].End != 6 {
			t.Errorf("%s: expected span [0,6], got [%d,%d]", alg, got[0].Start, got[0].End)
		}
	}
}

func TestAlgorithmEquivalence(t *testing.T) {
	words := []string{"shit", "bitch", "ass", "damn"}
	texts := []string{
		"you are a bitch",
		"this is bullshit and damnation",
		"assassin ass kicker",
		"nothing bad here",
	}
	for _, text := range texts {
		trieM := newBuilt(AlgorithmTrie, words...)
		ahoM := newBuilt(AlgorithmAho, words...)

		trieMatches := trieM.FindAll([]rune(text), false, nil)
		ahoMatches := ahoM.FindAll([]rune(text), false, nil)

		sortMatches(trieMatches)
		sortMatches(ahoMatches)

		if diff := cmp.Diff(trieMatches, ahoMatches, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("text %q: trie/aho mismatch (-trie +aho):\n%s", text, diff)
		}
	}
}

func TestAhoFindAllBeforeFinalizePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic calling FindAll before Finalize")
		}
	}()
	a := NewAhoCorasick()
	a.InsertAll([]string{"shit"})
	a.FindAll([]rune("shit"), false, nil)
}

func TestLongestTerminalWins(t *testing.T) {
	m := newBuilt(AlgorithmTrie, "cat", "cats")
	got := m.FindAll([]rune("cats"), false, nil)
	if len(got) != 1 || got[0].Word != "cats" {
		t.Errorf("%s: expected longest terminal 'cats', got %v", AlgorithmTrie, got)
	}

	// Longest-terminal selection is a Trie property: Aho-Corasick reports
	// every pattern in the output list at each position, so "cat" is
	// reported alongside "cats".
	a := newBuilt(AlgorithmAho, "cat", "cats")
	gotAho := a.FindAll([]rune("cats"), false, nil)
	sortMatches(gotAho)
	want := []Match{{Start: 0, End: 2, Word: "cat"}, {Start: 0, End: 3, Word: "cats"}}
	if diff := cmp.Diff(want, gotAho); diff != "" {
		t.Errorf("%s: mismatch (-want +got):\n%s", AlgorithmAho, diff)
	}
}
