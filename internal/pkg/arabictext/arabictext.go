// Package arabictext prepares Arabic strings for a left-to-right PDF
// canvas: contextual glyph shaping plus visual reordering, keeping
// embedded Latin or numeric runs (matricules, dates, NNI) readable.
package arabictext

import (
	"strings"

	"github.com/abdullahdiaa/garabic"
)

// HasArabic reports whether s contains at least one Arabic-block rune.
func HasArabic(s string) bool {
	for _, r := range s {
		if isArabicRune(r) {
			return true
		}
	}
	return false
}

func isArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) || // Arabic
		(r >= 0x0750 && r <= 0x077F) || // Arabic Supplement
		(r >= 0xFB50 && r <= 0xFDFF) || // Presentation Forms-A
		(r >= 0xFE70 && r <= 0xFEFF) // Presentation Forms-B
}

// Shape converts logical-order Arabic text into the visual-order, shaped
// form a non-bidi canvas renders correctly. Non-Arabic text passes
// through unchanged.
func Shape(s string) string {
	if s == "" || !HasArabic(s) {
		return s
	}

	runs := splitRuns(s)

	// Visual order on an LTR canvas is the reverse of logical run order,
	// with each Arabic run shaped and reversed, and each LTR run intact.
	var b strings.Builder
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		if run.arabic {
			b.WriteString(reverseRunes(garabic.Shape(run.text)))
		} else {
			b.WriteString(run.text)
		}
	}
	return b.String()
}

type run struct {
	text   string
	arabic bool
}

// splitRuns partitions s into maximal runs of Arabic and non-Arabic text.
// Spaces and neutral punctuation stick to the run they follow.
func splitRuns(s string) []run {
	var runs []run
	var current []rune
	currentArabic := false
	started := false

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, run{text: string(current), arabic: currentArabic})
			current = current[:0]
		}
	}

	for _, r := range s {
		if isNeutralRune(r) {
			current = append(current, r)
			continue
		}
		arab := isArabicRune(r)
		if !started {
			started = true
			currentArabic = arab
		} else if arab != currentArabic {
			flush()
			currentArabic = arab
		}
		current = append(current, r)
	}
	flush()
	return runs
}

func isNeutralRune(r rune) bool {
	switch r {
	case ' ', ':', '،', ',', '.', '-', '(', ')':
		return true
	}
	return false
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
