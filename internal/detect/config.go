// Package detect implements the orchestrator: stage sequencing across the
// normalizer, exact matcher, inflection scan, phrase matcher and
// approximate fallback, plus language selection, masking, and the public
// Detector surface.
package detect

import (
	"fmt"

	"github.com/yourusername/wordguard/internal/matcher"
)

// MaskingConfig controls how sanitize redacts a matched span.
type MaskingConfig struct {
	Enabled        bool
	PatternChar    rune
	PreserveLength bool
	PreserveFirst  bool
	PreserveLast   bool
}

// DetectionConfig controls normalization, matching, and the fuzzy/phrase
// fallback stages. Field names mirror spec §3 exactly.
type DetectionConfig struct {
	MaxEditDistance    int
	CaseSensitive      bool
	WholeWordsOnly     bool
	CustomWords        []string
	ConfusableMapping  bool
	IgnoreSeparators   map[rune]bool
	StripDiacritics    bool
	UseCompatForm      bool
	LengthPreserving   bool
	StripInvisible     bool
	EnableInflections  bool
	InflectionSuffixes []string
	Allowlist          map[string]bool
	TokenBoundedFuzzy  bool
	PhraseStopwords    map[string]bool
	PhraseMaxSkips     int
	Algorithm          matcher.Algorithm
}

// LanguagesConfig controls which languages are active and how auto-detect
// resolves candidates for a given input.
type LanguagesConfig struct {
	Enabled    []string
	AutoDetect bool
	Fallback   string
}

// Config is the immutable snapshot a Detector instance holds. New clones it
// on construction so mutating a caller's copy afterward never reaches the
// detector (spec §9, "frozen defaults").
type Config struct {
	Masking   MaskingConfig
	Detection DetectionConfig
	Languages LanguagesConfig
}

// DefaultConfig returns the contractual defaults of spec §6.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{
			Enabled:        true,
			PatternChar:    '*',
			PreserveLength: true,
			PreserveFirst:  true,
			PreserveLast:   false,
		},
		Detection: DetectionConfig{
			MaxEditDistance:   1,
			CaseSensitive:     false,
			WholeWordsOnly:    false,
			ConfusableMapping: true,
			IgnoreSeparators: map[rune]bool{
				' ': true, '.': true, '-': true, '_': true, '*': true,
			},
			StripDiacritics:    true,
			UseCompatForm:      false,
			LengthPreserving:   true,
			StripInvisible:     true,
			EnableInflections:  true,
			InflectionSuffixes: []string{"s", "es", "ed", "ing", "er", "ers"},
			TokenBoundedFuzzy:  true,
			PhraseStopwords: map[string]bool{
				"of": true, "the": true, "a": true, "an": true, "and": true, "to": true,
			},
			PhraseMaxSkips: 2,
			Algorithm:      matcher.AlgorithmTrie,
		},
		Languages: LanguagesConfig{
			Enabled:    []string{"en"},
			AutoDetect: false,
			Fallback:   "en",
		},
	}
}

// validateConfig rejects configuration errors at construction/mutation
// time, never inside detect (spec §7).
func validateConfig(cfg Config) error {
	if cfg.Detection.MaxEditDistance < 0 {
		return fmt.Errorf("detect: max_edit_distance must be non-negative, got %d", cfg.Detection.MaxEditDistance)
	}
	if cfg.Detection.PhraseMaxSkips < 0 {
		return fmt.Errorf("detect: phrase_max_skips must be non-negative, got %d", cfg.Detection.PhraseMaxSkips)
	}
	return nil
}

// cloneConfig deep-copies the mutable fields of cfg so a detector instance
// never shares map/slice backing storage with the caller.
func cloneConfig(cfg Config) Config {
	out := cfg

	out.Detection.CustomWords = append([]string{}, cfg.Detection.CustomWords...)
	out.Detection.InflectionSuffixes = append([]string{}, cfg.Detection.InflectionSuffixes...)

	out.Detection.IgnoreSeparators = make(map[rune]bool, len(cfg.Detection.IgnoreSeparators))
	for k, v := range cfg.Detection.IgnoreSeparators {
		out.Detection.IgnoreSeparators[k] = v
	}

	out.Detection.Allowlist = make(map[string]bool, len(cfg.Detection.Allowlist))
	for k, v := range cfg.Detection.Allowlist {
		out.Detection.Allowlist[k] = v
	}

	out.Detection.PhraseStopwords = make(map[string]bool, len(cfg.Detection.PhraseStopwords))
	for k, v := range cfg.Detection.PhraseStopwords {
		out.Detection.PhraseStopwords[k] = v
	}

	out.Languages.Enabled = append([]string{}, cfg.Languages.Enabled...)

	return out
}
