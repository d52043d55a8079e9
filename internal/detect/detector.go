package detect

import (
	"sync"

	"github.com/yourusername/wordguard/internal/fuzzy"
	"github.com/yourusername/wordguard/internal/matcher"
	"github.com/yourusername/wordguard/internal/normalize"
	"github.com/yourusername/wordguard/internal/packs"
	"github.com/yourusername/wordguard/internal/phrase"
	"github.com/yourusername/wordguard/internal/registry"
)

// Detector is the public entry point: it wires the normalizer, language
// registry, phrase trie, and fuzzy scanner into the pipeline of spec §2.
// A Detector is safe for concurrent Detect/Sanitize calls; mutators take an
// exclusive lock and atomically publish their result (spec §5).
type Detector struct {
	mu      sync.RWMutex
	config  Config
	reg     *registry.Registry
	phrases *phrase.Trie
}

// New constructs a Detector over table, applying cfg (use DefaultConfig()
// as a starting point). cfg is deep-copied, so later mutation of the
// caller's copy never reaches the detector.
func New(table packs.Table, cfg Config) (*Detector, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = cloneConfig(cfg)

	reg := registry.New(table, cfg.Detection.Algorithm, normOptsFromConfig(cfg), registry.Inflection{
		Enabled:  cfg.Detection.EnableInflections,
		Suffixes: cfg.Detection.InflectionSuffixes,
	})
	reg.SetActive(cfg.Languages.Enabled, cfg.Languages.Fallback)
	for _, w := range cfg.Detection.CustomWords {
		reg.AddWord(w, "")
	}

	return &Detector{
		config:  cfg,
		reg:     reg,
		phrases: phrase.New(),
	}, nil
}

// NewDefault constructs a Detector over table using DefaultConfig().
func NewDefault(table packs.Table) (*Detector, error) {
	return New(table, DefaultConfig())
}

func normOptsFromConfig(cfg Config) normalize.Options {
	return normalize.Options{
		CaseSensitive:     cfg.Detection.CaseSensitive,
		StripInvisible:    cfg.Detection.StripInvisible,
		StripDiacritics:   cfg.Detection.StripDiacritics,
		ConfusableMapping: cfg.Detection.ConfusableMapping,
		UseCompatForm:     cfg.Detection.UseCompatForm,
		LengthPreserving:  cfg.Detection.LengthPreserving,
	}
}

// snapshot returns a copy of the live config under the read lock, so the
// rest of Detect/Sanitize can work lock-free against a stable value.
func (d *Detector) snapshot() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config
}

// Detect runs the pipeline of spec §2 against text and returns every span
// found. It never errors: malformed or exotic Unicode simply yields no
// matches (spec §7).
func (d *Detector) Detect(text string) Result {
	cfg := d.snapshot()
	normOpts := normOptsFromConfig(cfg)
	normalized := normalize.Normalize(text, normOpts)
	runes := []rune(normalized)

	var spans []Span

	candidates := d.resolveLanguages(runes, cfg)
	for _, code := range candidates {
		m, ok := d.reg.MatcherFor(code)
		if !ok {
			continue
		}

		exact := m.FindAll(runes, cfg.Detection.WholeWordsOnly, cfg.Detection.IgnoreSeparators)
		matches := toSpans(exact, code)

		if cfg.Detection.EnableInflections {
			words, _ := d.reg.WordsFor(code)
			inflected := inflectionScan(runes, words, cfg.Detection.InflectionSuffixes, cfg.Detection.Algorithm, cfg.Detection.IgnoreSeparators)
			matches = append(matches, toSpans(inflected, code)...)
		}

		matches = filterAllowlist(matches, cfg.Detection.Allowlist)
		if len(matches) > 0 {
			spans = append(spans, matches...)
			break
		}
	}

	if len(spans) == 0 {
		d.mu.RLock()
		phraseMatches := d.phrases.FindAll(phrase.Tokenize(runes), cfg.Detection.PhraseStopwords, cfg.Detection.PhraseMaxSkips)
		d.mu.RUnlock()
		for _, pm := range phraseMatches {
			spans = append(spans, Span{
				Word:         pm.Phrase,
				Start:        pm.Start,
				Length:       pm.End - pm.Start + 1,
				LanguageCode: cfg.Languages.Fallback,
			})
		}
	}

	if len(spans) == 0 && cfg.Detection.MaxEditDistance > 0 {
		for _, code := range candidates {
			words, ok := d.reg.WordsFor(code)
			if !ok || len(words) == 0 {
				continue
			}
			if fm, found := fuzzy.ScanLanguage(runes, words, fuzzy.Options{
				MaxEditDistance:   cfg.Detection.MaxEditDistance,
				WholeWordsOnly:    cfg.Detection.WholeWordsOnly,
				TokenBoundedFuzzy: cfg.Detection.TokenBoundedFuzzy,
			}); found {
				spans = append(spans, Span{
					Word:         fm.Word,
					Start:        fm.Start,
					Length:       fm.End - fm.Start + 1,
					LanguageCode: code,
				})
				break
			}
		}
	}

	return Result{HasProfanity: len(spans) > 0, Matches: spans}
}

// Sanitize runs Detect and masks every non-overlapping match into a copy of
// text. If masking is disabled or no profanity is found, text is returned
// unchanged (modulo the normalization pass when length_preserving is
// false, per spec §9's coordinate-system note).
func (d *Detector) Sanitize(text string) string {
	cfg := d.snapshot()
	result := d.Detect(text)
	if !result.HasProfanity {
		return text
	}

	var base []rune
	if cfg.Detection.LengthPreserving {
		base = []rune(text)
	} else {
		base = []rune(normalize.Normalize(text, normOptsFromConfig(cfg)))
	}

	if !cfg.Masking.Enabled {
		return string(base)
	}

	for _, span := range selectNonOverlapping(result.Matches) {
		applyMask(base, span, cfg.Masking)
	}
	return string(base)
}

// resolveLanguages implements the candidate-language algorithm of spec
// §4.7. Within the auto_detect branch the "else if still empty" clause of
// the literal pseudocode can never fire (auto_detect is always true here),
// so it is preserved only as the fallback-to-all-known path.
func (d *Detector) resolveLanguages(runes []rune, cfg Config) []string {
	if !cfg.Languages.AutoDetect {
		return cfg.Languages.Enabled
	}

	likely := scriptHeuristic(runes)
	loaded := d.reg.LoadedLanguages()
	candidates := intersectOrdered(likely, loaded)

	if len(candidates) == 0 && len(loaded) > 0 {
		candidates = loaded
	}
	if len(candidates) == 0 {
		candidates = d.reg.LoadAllKnown()
	}
	return candidates
}

// inflectionScan builds a transient whole-word matcher over the word+suffix
// form of every word and every suffix, and searches with whole-word
// boundaries forced on regardless of the configured whole_words_only: its
// entire purpose is to catch inflected surface forms the stored word set
// doesn't already contain as literal entries.
func inflectionScan(text []rune, words []string, suffixes []string, alg matcher.Algorithm, separators map[rune]bool) []matcher.Match {
	if len(words) == 0 || len(suffixes) == 0 {
		return nil
	}

	forms := make([]string, 0, len(words)*len(suffixes))
	for _, w := range words {
		for _, suf := range suffixes {
			forms = append(forms, w+suf)
		}
	}

	m := matcher.New(alg)
	m.InsertAll(forms)
	m.Finalize()
	return m.FindAll(text, true, separators)
}

func toSpans(matches []matcher.Match, code string) []Span {
	out := make([]Span, 0, len(matches))
	for _, m := range matches {
		out = append(out, Span{
			Word:         m.Word,
			Start:        m.Start,
			Length:       m.End - m.Start + 1,
			LanguageCode: code,
		})
	}
	return out
}

func filterAllowlist(spans []Span, allowlist map[string]bool) []Span {
	if len(allowlist) == 0 {
		return spans
	}
	out := spans[:0]
	for _, s := range spans {
		if !allowlist[s.Word] {
			out = append(out, s)
		}
	}
	return out
}

// LoadLanguages loads codes into the registry, marking them active. It is
// synchronous (the pack table is in-memory, spec §5) but named and shaped
// like a completion signal for API parity with higher-level callers.
func (d *Detector) LoadLanguages(codes []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg.Load(codes)
	d.config.Languages.Enabled = d.reg.ActiveLanguages()
	return nil
}

// SetLanguages replaces the active language list and, if fallback is
// non-empty, the fallback code.
func (d *Detector) SetLanguages(codes []string, fallback string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg.SetActive(codes, fallback)
	d.config.Languages.Enabled = d.reg.ActiveLanguages()
	if fallback != "" {
		d.config.Languages.Fallback = fallback
	}
}

// ActiveLanguages returns the codes currently selected as candidates for
// Detect, in priority order.
func (d *Detector) ActiveLanguages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.reg.ActiveLanguages()
}

// LoadedLanguages returns every code the registry has loaded a matcher
// for, whether or not it is currently active — a superset of
// ActiveLanguages.
func (d *Detector) LoadedLanguages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.reg.LoadedLanguages()
}

// SetAlgorithm rebuilds every loaded language's matcher under alg.
func (d *Detector) SetAlgorithm(alg matcher.Algorithm) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg.SetAlgorithm(alg)
	d.config.Detection.Algorithm = alg
}

// AddWord adds word to code (or the fallback language if code is empty).
func (d *Detector) AddWord(word, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg.AddWord(word, code)
}

// RemoveWord removes word's normalized forms from code (or the fallback
// language if code is empty).
func (d *Detector) RemoveWord(word, code string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg.RemoveWord(word, code)
}

// AddPhrase inserts a multi-word phrase. It is tokenized and normalized
// with the detector's current configuration before insertion.
func (d *Detector) AddPhrase(phraseText string) {
	cfg := d.snapshot()
	normalized := normalize.Normalize(phraseText, normOptsFromConfig(cfg))
	tokens := phrase.Tokenize([]rune(normalized))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.phrases.Insert(tokenTexts(tokens))
}

// RemovePhrase un-marks phraseText's terminal node, if present.
func (d *Detector) RemovePhrase(phraseText string) {
	cfg := d.snapshot()
	normalized := normalize.Normalize(phraseText, normOptsFromConfig(cfg))
	tokens := phrase.Tokenize([]rune(normalized))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.phrases.Remove(tokenTexts(tokens))
}

func tokenTexts(tokens []phrase.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
