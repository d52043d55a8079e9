// Package registry holds the per-language word sets and compiled matchers:
// the "language registry" of spec §4.6. Each language entry owns its
// matcher exclusively; mutators build a new matcher and atomically swap it
// in, so a concurrent detect call never observes a partially-built one.
package registry

import (
	"sync"

	"github.com/yourusername/wordguard/internal/matcher"
	"github.com/yourusername/wordguard/internal/normalize"
	"github.com/yourusername/wordguard/internal/packs"
)

// Inflection configures custom-word suffix expansion.
type Inflection struct {
	Enabled  bool
	Suffixes []string
}

// entry is one language's word set plus its compiled matcher. The matcher
// field is replaced, never mutated, on rebuild.
type entry struct {
	words   map[string]bool
	matcher matcher.Matcher
}

// Registry is the mutable, lockable owner of every language's word set and
// compiled matcher. All mutators are logically atomic: they hold the lock
// for their full rebuild and never publish a half-built matcher.
type Registry struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	active     []string
	fallback   string
	table      packs.Table
	algorithm  matcher.Algorithm
	normOpts   normalize.Options
	inflection Inflection
}

// New constructs an empty registry. table supplies raw word lists on first
// Load of a code; normOpts governs how raw words are canonicalized into the
// word set (the same transform detect applies to input text, so dictionary
// and input text agree on casing/diacritics/confusables).
func New(table packs.Table, alg matcher.Algorithm, normOpts normalize.Options, inflection Inflection) *Registry {
	return &Registry{
		entries:    make(map[string]*entry),
		table:      table,
		algorithm:  alg,
		normOpts:   normOpts,
		inflection: inflection,
	}
}

// SetActive replaces the active language list, loading default packs for
// any code not yet populated, and rebuilds as needed. If fallback is
// non-empty it becomes the new fallback code.
func (r *Registry) SetActive(codes []string, fallback string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadLocked(codes)
	r.active = append([]string{}, codes...)
	if fallback != "" {
		r.fallback = fallback
	}
}

// Load populates any of codes not already present from the pack table,
// marking each one active. An unknown code (absent from the table)
// produces an empty entry rather than an error, so a later AddWord can
// still populate it.
func (r *Registry) Load(codes []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked(codes)
	r.active = mergeActive(r.active, codes)
}

func (r *Registry) loadLocked(codes []string) {
	for _, code := range codes {
		if _, ok := r.entries[code]; ok {
			continue
		}
		raw := r.table.Words(code)
		words := make(map[string]bool, len(raw))
		for _, w := range raw {
			for _, variant := range normalizeWord(w, r.normOpts) {
				words[variant] = true
			}
		}
		r.entries[code] = &entry{words: words, matcher: buildMatcher(r.algorithm, words)}
	}
}

func mergeActive(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c] = true
	}
	out := append([]string{}, existing...)
	for _, c := range additions {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// LoadAllKnown loads every code the pack table knows about, marking each
// active. Used by the orchestrator's auto-detect fallback path.
func (r *Registry) LoadAllKnown() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := r.table.AllCodes()
	r.loadLocked(codes)
	r.active = mergeActive(r.active, codes)
	return append([]string{}, codes...)
}

// AddWord adds word to code (or the fallback language if code is empty),
// rebuilding that language's matcher. When inflection expansion is
// enabled, word+suffix variants are inserted alongside the base form.
func (r *Registry) AddWord(word, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := code
	if target == "" {
		target = r.fallback
	}
	e := r.entryLocked(target)

	forms := normalizeWord(word, r.normOpts)
	if r.inflection.Enabled {
		for _, base := range append([]string{}, forms...) {
			for _, suffix := range r.inflection.Suffixes {
				forms = append(forms, base+suffix)
			}
		}
	}
	for _, f := range forms {
		if f == "" {
			continue
		}
		e.words[f] = true
	}
	e.matcher = buildMatcher(r.algorithm, e.words)
}

// RemoveWord removes word's normalized forms from code (or the fallback
// language), rebuilding that language's matcher.
func (r *Registry) RemoveWord(word, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := code
	if target == "" {
		target = r.fallback
	}
	e, ok := r.entries[target]
	if !ok {
		return
	}
	for _, f := range normalizeWord(word, r.normOpts) {
		delete(e.words, f)
	}
	e.matcher = buildMatcher(r.algorithm, e.words)
}

// SetAlgorithm rebuilds every loaded language's matcher (active or not)
// under alg, dropping the previously-used matcher kind.
func (r *Registry) SetAlgorithm(alg matcher.Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.algorithm = alg
	for _, e := range r.entries {
		e.matcher = buildMatcher(alg, e.words)
	}
}

func (r *Registry) entryLocked(code string) *entry {
	e, ok := r.entries[code]
	if !ok {
		e = &entry{words: make(map[string]bool)}
		r.entries[code] = e
	}
	return e
}

// ActiveLanguages returns the current ordered active language list.
func (r *Registry) ActiveLanguages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.active...)
}

// LoadedLanguages returns every code with a populated entry (active or
// not), in no particular order.
func (r *Registry) LoadedLanguages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.entries))
	for c := range r.entries {
		codes = append(codes, c)
	}
	return codes
}

// Fallback returns the current fallback language code.
func (r *Registry) Fallback() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// MatcherFor returns code's compiled matcher, if loaded.
func (r *Registry) MatcherFor(code string) (matcher.Matcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	if !ok {
		return nil, false
	}
	return e.matcher, true
}

// WordsFor returns code's normalized word set as a slice, if loaded. The
// fuzzy scanner needs raw words (not a compiled matcher), so this is
// exposed alongside MatcherFor.
func (r *Registry) WordsFor(code string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	if !ok {
		return nil, false
	}
	words := make([]string, 0, len(e.words))
	for w := range e.words {
		words = append(words, w)
	}
	return words, true
}

func normalizeWord(word string, opts normalize.Options) []string {
	normalized := normalize.Normalize(word, opts)
	if normalized == "" {
		return nil
	}
	return normalize.GermanEszettVariants(normalized)
}

func buildMatcher(alg matcher.Algorithm, words map[string]bool) matcher.Matcher {
	list := make([]string, 0, len(words))
	for w := range words {
		list = append(list, w)
	}
	m := matcher.New(alg)
	m.InsertAll(list)
	m.Finalize()
	return m
}
