package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctFolds maps unicode punctuation variants that OCR backends emit for
// screenshot text to their ASCII equivalents. Applied after NFKC
// normalization, which already folds full-width digits and letters.
var punctFolds = map[string]string{
	" ": " ", // non-breaking space
	"，": ",", // full-width comma
	"：": ":", // full-width colon
	"．": ".", // full-width full stop
	"、": ",", // ideographic comma
	"‘": "'",
	"’": "'",
	"“": `"`,
	"”": `"`,
	"′": "'", // prime, common in pace notation
	"″": `"`,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize canonicalizes raw OCR text: punctuation folding, newline cleanup,
// blank-run collapse, trim. Purely orthographic; no field knowledge here.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := norm.NFKC.String(text)
	s = applyFolds(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func applyFolds(s string) string {
	// Longer keys first so multi-byte sequences never partially overlap.
	keys := make([]string, 0, len(punctFolds))
	for k := range punctFolds {
		keys = append(keys, k)
	}
	for i := range len(keys) - 1 {
		for j := i + 1; j < len(keys); j++ {
			if len(keys[j]) > len(keys[i]) {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for _, k := range keys {
		s = strings.ReplaceAll(s, k, punctFolds[k])
	}
	return s
}

var (
	fragmentedKM   = regexp.MustCompile(`\bk\s*[.,]?\s*m\b`)
	fragmentedBPM  = regexp.MustCompile(`\bb\s*[.,]?\s*p\s*[.,]?\s*m\b`)
	fragmentedKcal = regexp.MustCompile(`\bk\s*[.,]?\s*c\s*[.,]?\s*a\s*[.,]?\s*l\b`)
	spacedPerKM    = regexp.MustCompile(`\s*/\s*km\b`)
	decimalComma   = regexp.MustCompile(`(\d)[,\x{00B7}](\d)`)
)

// NormalizeLine canonicalizes a single line for candidate scanning: lower-case,
// unit-token repair, decimal-separator fixup, pipe-to-one. Order matters: the
// candidate regexes assume these canonical tokens exist.
func NormalizeLine(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = fragmentedKM.ReplaceAllString(s, "km")
	s = fragmentedBPM.ReplaceAllString(s, "bpm")
	s = fragmentedKcal.ReplaceAllString(s, "kcal")
	s = spacedPerKM.ReplaceAllString(s, "/km")
	s = decimalComma.ReplaceAllString(s, "$1.$2")
	// Slab-serif "1" is routinely read as a pipe.
	s = strings.ReplaceAll(s, "|", "1")
	return s
}

// confusables maps letters OCR mistakes for digits.
var confusables = map[rune]rune{
	'o': '0', 'O': '0',
	'l': '1', 'I': '1',
	's': '5', 'S': '5',
	'b': '6',
	'B': '8',
}

// FixNumericToken repairs visually-confusable letters inside a token that
// should be numeric and strips everything else. With allowDot, a decimal
// point survives. Applied only inside candidate generators; repairing
// globally would corrupt legitimate text.
func FixNumericToken(token string, allowDot bool) string {
	var b strings.Builder
	for _, r := range token {
		if d, ok := confusables[r]; ok {
			r = d
		}
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case allowDot && r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}
