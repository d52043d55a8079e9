// Package fuzzy implements the approximate-match fallback: a sliding-window
// edit-distance scan used only when no earlier pipeline stage produced a
// match and the configuration allows a positive max edit distance.
package fuzzy

import "github.com/yourusername/wordguard/internal/matcher"

// Match is an approximate-match span, in code-point positions of the text
// that was searched. Both bounds are inclusive.
type Match struct {
	Start    int
	End      int
	Word     string
	Distance int
}

// Options configures a single language's fuzzy scan.
type Options struct {
	MaxEditDistance   int
	WholeWordsOnly    bool
	TokenBoundedFuzzy bool
}

// ScanLanguage scans words in order and returns the first match found: the
// first word for which some starting position yields a substring within
// its scaled edit-distance budget. It deliberately does not collect every
// possible match — this "first word, first position" short-circuit is the
// documented fallback behavior, preserved for latency.
func ScanLanguage(text []rune, words []string, opts Options) (Match, bool) {
	if opts.MaxEditDistance <= 0 {
		return Match{}, false
	}

	for _, word := range words {
		wordRunes := []rune(word)
		wlen := len(wordRunes)
		if wlen == 0 {
			continue
		}

		d := opts.MaxEditDistance
		if scaled := wlen / 5; scaled < d {
			d = scaled
		}
		window := wlen + d

		n := len(text)
		for i := 0; i < n; i++ {
			if opts.TokenBoundedFuzzy && i > 0 && matcher.IsWordChar(text[i-1]) {
				continue
			}

			end := i + window
			if end > n {
				end = n
			}
			if end-i < wlen {
				break
			}

			bestDist := -1
			bestOffset := -1
			for sub := i; sub+wlen <= end; sub++ {
				dist := levenshtein(text[sub:sub+wlen], wordRunes)
				if bestDist == -1 || dist < bestDist {
					bestDist = dist
					bestOffset = sub
				}
			}

			if bestDist < 0 || bestDist > d {
				continue
			}

			rightEnd := bestOffset + wlen - 1
			if opts.WholeWordsOnly {
				if bestOffset > 0 && matcher.IsWordChar(text[bestOffset-1]) {
					continue
				}
				if rightEnd < n-1 && matcher.IsWordChar(text[rightEnd+1]) {
					continue
				}
			}

			return Match{Start: bestOffset, End: rightEnd, Word: word, Distance: bestDist}, true
		}
	}

	return Match{}, false
}
