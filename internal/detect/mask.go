package detect

import "sort"

// selectNonOverlapping sorts spans ascending by start position and keeps
// each one only if it starts after the previously accepted span's end,
// per spec §4.7 ("apply non-overlapping matches in ascending order").
func selectNonOverlapping(spans []Span) []Span {
	sorted := append([]Span{}, spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]Span, 0, len(sorted))
	lastEnd := -1
	for _, s := range sorted {
		if s.Start > lastEnd {
			out = append(out, s)
			lastEnd = s.Start + s.Length - 1
		}
	}
	return out
}

// applyMask redacts span in-place within base, per the masking config.
func applyMask(base []rune, span Span, mcfg MaskingConfig) {
	length := span.Length
	if length <= 0 {
		return
	}

	if !mcfg.PreserveLength {
		for i := span.Start; i < span.Start+length; i++ {
			base[i] = mcfg.PatternChar
		}
		return
	}

	for i := 0; i < length; i++ {
		pos := span.Start + i
		keep := (mcfg.PreserveFirst && i == 0) || (mcfg.PreserveLast && i == length-1)
		if !keep {
			base[pos] = mcfg.PatternChar
		}
	}
}
