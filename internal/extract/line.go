package extract

import "strings"

// Line is one normalized unit of input text. PositionRatio is the line's
// vertical position in [0,1]; small values mean the line sits in the top
// overlay region where clocks and battery indicators live.
type Line struct {
	Index         int     `json:"index"`
	Raw           string  `json:"raw"`
	Normalized    string  `json:"normalized"`
	PositionRatio float64 `json:"position_ratio"`
}

// SplitLines turns normalized text into indexed lines, dropping lines whose
// normalized form is empty. PositionRatio is computed over the kept lines.
func SplitLines(normalized string) []Line {
	if normalized == "" {
		return nil
	}
	raw := strings.Split(normalized, "\n")
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		n := NormalizeLine(r)
		if n == "" {
			continue
		}
		lines = append(lines, Line{Raw: r, Normalized: n})
	}
	for i := range lines {
		lines[i].Index = i
		if len(lines) > 1 {
			lines[i].PositionRatio = float64(i) / float64(len(lines)-1)
		}
	}
	return lines
}
