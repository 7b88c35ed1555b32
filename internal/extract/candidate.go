package extract

import (
	"sort"
	"strconv"
)

// Candidate is one plausible extracted value for a field, with a heuristic
// confidence score and provenance. Distance, heart rate and calories carry
// Number; duration and pace carry Clock.
type Candidate struct {
	Field      Field   `json:"field"`
	Number     float64 `json:"number,omitempty"`
	Clock      *Clock  `json:"clock,omitempty"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
	SourceLine string  `json:"source_line"`
}

// Value returns the candidate's value as a display string.
func (c Candidate) Value() string {
	if c.Clock != nil {
		return c.Clock.Display
	}
	return strconv.FormatFloat(c.Number, 'f', -1, 64)
}

// valueKey is the identity used for deduplication: the recovered value, not
// the line it came from. Clock values compare by seconds so "5:38" matched
// twice with different punctuation collapses to one entry.
func (c Candidate) valueKey() float64 {
	if c.Clock != nil {
		return float64(c.Clock.Seconds)
	}
	return c.Number
}

// Dedupe collapses candidates with equal recovered values, keeping the
// highest-scored entry of each group, and returns the groups ranked
// score-descending. First-seen order breaks score ties, so the ranking is
// deterministic.
func Dedupe(cands []Candidate) []Candidate {
	if len(cands) == 0 {
		return nil
	}
	best := make(map[float64]int, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		k := c.valueKey()
		if i, ok := best[k]; ok {
			if c.Score > out[i].Score {
				out[i] = c
			}
			continue
		}
		best[k] = len(out)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
