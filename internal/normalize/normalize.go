// Package normalize implements the per-code-point text canonicalization
// stage of the detection pipeline: case folding, invisible-control
// stripping, diacritic removal, confusable substitution, and optional
// compatibility composition.
package normalize

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// combining marks block (U+0300-U+036F) stripped when diacritics are removed.
const (
	combiningLow  rune = 0x0300
	combiningHigh rune = 0x036F
)

var invisibles = map[rune]bool{
	0x200B: true, // zero-width space
	0x200C: true, // zero-width non-joiner
	0x200D: true, // zero-width joiner
	0xFEFF: true, // BOM
	0x00AD: true, // soft hyphen
}

// Options configures a single Normalize call. It is a narrow projection of
// the detector's detection config, passed by value so normalize never
// observes or mutates shared configuration state.
type Options struct {
	CaseSensitive     bool
	StripInvisible    bool
	StripDiacritics   bool
	ConfusableMapping bool
	UseCompatForm     bool
	LengthPreserving  bool
}

// Normalize canonicalizes text per opts. When opts.LengthPreserving is true
// (as in detect.DefaultConfig) the result has exactly the same
// number of code points as the input, and position i of the result
// corresponds to position i of the input.
func Normalize(text string, opts Options) string {
	if opts.UseCompatForm && !opts.LengthPreserving {
		text = norm.NFKC.String(text)
	}

	runes := []rune(text)
	out := make([]rune, 0, len(runes))

	for _, r := range runes {
		if !opts.CaseSensitive {
			r = unicode.ToLower(r)
		}

		if invisibles[r] {
			if opts.StripInvisible {
				if opts.LengthPreserving {
					out = append(out, ' ')
				}
				continue
			}
		}

		if opts.StripDiacritics {
			r = stripDiacritic(r, opts.LengthPreserving, &out)
			if r == 0 {
				// stripDiacritic already appended a (possibly empty)
				// expansion in non-length-preserving mode.
				continue
			}
		}

		if opts.ConfusableMapping {
			if mapped, ok := confusableTable[r]; ok {
				r = mapped
			}
		}

		out = append(out, r)
	}

	return string(out)
}

// stripDiacritic applies compatibility decomposition to a single code point
// and removes combining marks in the U+0300-U+036F block. In
// length-preserving mode it returns the first base character (retaining
// only one code point even if decomposition produced several, e.g. for a
// ligature); the caller appends the returned rune itself. In
// non-length-preserving mode it appends the full base sequence directly to
// out and returns 0 to signal "already appended".
func stripDiacritic(r rune, lengthPreserving bool, out *[]rune) rune {
	decomposed := norm.NFKD.String(string(r))

	var bases []rune
	for _, dr := range decomposed {
		if dr >= combiningLow && dr <= combiningHigh {
			continue
		}
		bases = append(bases, dr)
	}

	if len(bases) == 0 {
		if lengthPreserving {
			return r
		}
		return 0
	}

	if lengthPreserving {
		return bases[0]
	}

	*out = append(*out, bases...)
	return 0
}

// GermanEszettVariants returns the additional surface forms a word should
// be indexed under at word-set build time. German ß also matches ss, so
// both forms are inserted as separate matcher entries; every other word
// maps to itself only.
func GermanEszettVariants(word string) []string {
	if !containsRune(word, 'ß') {
		return []string{word}
	}
	variants := []string{word}
	expanded := make([]rune, 0, len(word)+2)
	for _, r := range word {
		if r == 'ß' {
			expanded = append(expanded, 's', 's')
		} else {
			expanded = append(expanded, r)
		}
	}
	return append(variants, string(expanded))
}

func containsRune(s string, target rune) bool {
	for _, r := range s {
		if r == target {
			return true
		}
	}
	return false
}
