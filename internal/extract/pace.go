package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	paceUnitRe  = regexp.MustCompile(`\b(\d{1,2})[:'](\d{2})\s*["']?\s*/?\s*km\b`)
	paceBareRe  = regexp.MustCompile(`\b(\d{1,2})[:'](\d{2})\b`)
	paceTokenRe = regexp.MustCompile(`페이스|pace|/km`)
)

// generatePace scans for M:SS immediately attached to /km, accepting the
// apostrophe-for-colon notation watch apps use (5'38"/km). A bare M:SS only
// counts when the line independently carries a pace token, otherwise every
// duration on the page would double as a pace.
func (e *Engine) generatePace(lines []Line, anchors []Anchor, pctx *Context) []Candidate {
	cfg := e.cfg.Pace
	var out []Candidate
	for _, ln := range lines {
		adjust := e.proximityScore(ln.Index, anchors)
		if pctx.fromROI() {
			adjust += e.cfg.ROIBonus
		}

		for _, m := range paceUnitRe.FindAllStringSubmatch(ln.Normalized, -1) {
			if c, ok := paceClock(m[1], m[2], cfg.Bounds); ok {
				out = append(out, Candidate{
					Field:      FieldPace,
					Clock:      c,
					Score:      cfg.UnitWeight + adjust,
					Reason:     "per-km pattern",
					SourceLine: ln.Normalized,
				})
			}
		}

		if !paceTokenRe.MatchString(ln.Normalized) {
			continue
		}
		for _, m := range paceBareRe.FindAllStringSubmatch(ln.Normalized, -1) {
			if c, ok := paceClock(m[1], m[2], cfg.Bounds); ok {
				out = append(out, Candidate{
					Field:      FieldPace,
					Clock:      c,
					Score:      cfg.ContextWeight + adjust,
					Reason:     "pace label context",
					SourceLine: ln.Normalized,
				})
			}
		}
	}
	return out
}

// paceClock builds a canonical M:SS clock from regex parts, normalizing the
// apostrophe notation, and bounds-checks the seconds-per-km value.
func paceClock(minStr, secStr string, b Bounds) (*Clock, bool) {
	minutes, _ := strconv.Atoi(minStr)
	seconds, _ := strconv.Atoi(secStr)
	if seconds >= 60 {
		return nil, false
	}
	total := minutes*60 + seconds
	if !b.Contains(float64(total)) {
		return nil, false
	}
	return &Clock{Display: fmt.Sprintf("%d:%02d", minutes, seconds), Seconds: total}, true
}
