package extract

import (
	"regexp"
	"strconv"
)

var (
	clockRe         = regexp.MustCompile(`\b(\d{1,2}):(\d{2})(?::(\d{2}))?\b`)
	durationTokenRe = regexp.MustCompile(`시간|time|duration|러닝`)
	statusTokenRe   = regexp.MustCompile(`배터리|충전|통신|비행기|lte|wifi|wi-fi|batt|airplane`)
)

// generateDuration scans for H?H:MM(:SS)? values. The dominant false positive
// is the status-bar clock, so unlabelled HH:MM matches with a 10-23 hour and
// top-of-page or status-bar lines are penalized hard rather than dropped;
// the joint selector still needs them as ranked alternatives.
func (e *Engine) generateDuration(lines []Line, anchors []Anchor, pctx *Context) []Candidate {
	cfg := e.cfg.Duration
	var out []Candidate
	for _, ln := range lines {
		adjust := e.proximityScore(ln.Index, anchors)
		if pctx.fromROI() {
			adjust += e.cfg.ROIBonus
		}
		if ln.PositionRatio <= e.cfg.TopOverlayRatio {
			adjust += cfg.OverlayPenalty
		}
		if statusTokenRe.MatchString(ln.Normalized) {
			adjust += cfg.StatusPenalty
		}
		labelled := durationTokenRe.MatchString(ln.Normalized)

		for _, m := range clockRe.FindAllStringSubmatch(ln.Normalized, -1) {
			first, _ := strconv.Atoi(m[1])
			second, _ := strconv.Atoi(m[2])
			var sec int
			switch {
			case m[3] != "":
				third, _ := strconv.Atoi(m[3])
				if second >= 60 || third >= 60 {
					continue
				}
				sec = first*3600 + second*60 + third
			default:
				if second >= 60 {
					continue
				}
				sec = first*60 + second
			}
			if !cfg.Bounds.Contains(float64(sec)) {
				continue
			}
			score := cfg.BaseWeight + adjust
			reason := "clock pattern"
			if m[3] == "" && first >= 10 && first <= 23 && !labelled {
				// Reads like a 24-hour wall clock with no duration caption.
				score += cfg.ClockPenalty
				reason = "clock pattern (wall-clock suspect)"
			}
			out = append(out, Candidate{
				Field:      FieldDuration,
				Clock:      &Clock{Display: m[0], Seconds: sec},
				Score:      score,
				Reason:     reason,
				SourceLine: ln.Normalized,
			})
		}
	}
	return out
}
