package config

import (
	"testing"

	"github.com/yourusername/wordguard/internal/matcher"
)

func TestValidateConfig(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		if err := validateConfig(GetDefaults()); err != nil {
			t.Errorf("default config should validate, got: %v", err)
		}
	})

	t.Run("RejectsInvalidPort", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Server.Port = 0
		if err := validateConfig(cfg); err == nil {
			t.Error("expected error for invalid port")
		}
	})

	t.Run("RejectsNegativeMaxEditDistance", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Detection.MaxEditDistance = -1
		if err := validateConfig(cfg); err == nil {
			t.Error("expected error for negative max_edit_distance")
		}
	})

	t.Run("RejectsUnknownAlgorithm", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Detection.Algorithm = "regex"
		if err := validateConfig(cfg); err == nil {
			t.Error("expected error for unknown algorithm")
		}
	})

	t.Run("RejectsUnknownWordstoreBackend", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Wordstore.Backend = "sqlite"
		if err := validateConfig(cfg); err == nil {
			t.Error("expected error for unknown wordstore backend")
		}
	})
}

func TestToDetectConfig(t *testing.T) {
	cfg := GetDefaults()
	dc := cfg.ToDetectConfig()

	t.Run("AlgorithmTranslated", func(t *testing.T) {
		if dc.Detection.Algorithm != matcher.AlgorithmTrie {
			t.Errorf("expected trie algorithm, got %v", dc.Detection.Algorithm)
		}
	})

	t.Run("PatternCharTranslated", func(t *testing.T) {
		if dc.Masking.PatternChar != '*' {
			t.Errorf("expected '*' pattern char, got %q", dc.Masking.PatternChar)
		}
	})

	t.Run("IgnoreSeparatorsBecomeRuneSet", func(t *testing.T) {
		if !dc.Detection.IgnoreSeparators[' '] {
			t.Error("expected space in ignore_separators rune set")
		}
	})

	t.Run("PhraseStopwordsBecomeSet", func(t *testing.T) {
		if !dc.Detection.PhraseStopwords["the"] {
			t.Error("expected 'the' in phrase stopwords set")
		}
	})

	t.Run("MutatingSourceSliceDoesNotLeakIntoResult", func(t *testing.T) {
		cfg := GetDefaults()
		dc := cfg.ToDetectConfig()
		cfg.Languages.Enabled[0] = "mutated"
		if dc.Languages.Enabled[0] == "mutated" {
			t.Error("ToDetectConfig should have copied the languages slice")
		}
	})
}
