package extract

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Anchor marks a line judged to be a human-readable caption for a field.
// Anchors never report values; they only boost nearby candidates.
type Anchor struct {
	LineIndex  int     `json:"line_index"`
	Similarity float64 `json:"similarity"`
}

// labelKeywords are the per-field caption dictionaries, Korean and English.
// Matching is fuzzy, so OCR-mangled captions ("distence", "페이스") still
// anchor.
var labelKeywords = map[Field][]string{
	FieldDistance: {"거리", "총 거리", "dist", "distance"},
	FieldDuration: {"시간", "총 시간", "총시간", "time", "duration", "total time"},
	FieldPace:     {"페이스", "평균 페이스", "pace", "avg pace"},
	FieldAvgHR:    {"심박", "심박수", "평균 심박수", "heart rate", "avg hr", "average heart rate"},
	FieldCalories: {"칼로리", "총 칼로리", "calories", "kcal", "cal"},
}

// similarity is normalized Levenshtein: 1 - dist/max(len(a), len(b), 1).
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	d := levenshtein.Distance(a, b, nil)
	return 1 - float64(d)/float64(maxLen)
}

// keywordSimilarity scores how label-like a line is for one keyword. The
// whole line and each whitespace token are compared; caption lines in
// screenshot layouts are usually either the bare label or "label value", so
// the token pass is what catches mixed lines.
func keywordSimilarity(line, keyword string) float64 {
	best := similarity(line, keyword)
	for _, tok := range strings.Fields(line) {
		if s := similarity(tok, keyword); s > best {
			best = s
		}
	}
	return best
}

// locateLabels finds, per field, every line that fuzzy-matches the field's
// caption dictionary above the acceptance threshold.
func (e *Engine) locateLabels(lines []Line) map[Field][]Anchor {
	anchors := make(map[Field][]Anchor, len(labelKeywords))
	for _, f := range Fields() {
		for _, ln := range lines {
			best := 0.0
			for _, kw := range labelKeywords[f] {
				if s := keywordSimilarity(ln.Normalized, kw); s > best {
					best = s
				}
			}
			if best >= e.cfg.LabelThreshold {
				anchors[f] = append(anchors[f], Anchor{LineIndex: ln.Index, Similarity: best})
			}
		}
	}
	return anchors
}

// proximityScore rewards candidates on or adjacent to a recognized caption
// line: closeness*ClosenessWeight + bestSimilarity*StrengthWeight, decaying
// linearly to zero DecayLines away. Zero when the field has no anchors.
func (e *Engine) proximityScore(lineIndex int, anchors []Anchor) float64 {
	if len(anchors) == 0 {
		return 0
	}
	minDist := -1
	strength := 0.0
	for _, a := range anchors {
		d := lineIndex - a.LineIndex
		if d < 0 {
			d = -d
		}
		if minDist < 0 || d < minDist {
			minDist = d
		}
		if a.Similarity > strength {
			strength = a.Similarity
		}
	}
	closeness := 1 - float64(minDist)/float64(e.cfg.ProximityDecayLines)
	if closeness < 0 {
		closeness = 0
	}
	return closeness*e.cfg.ClosenessWeight + strength*e.cfg.StrengthWeight
}
