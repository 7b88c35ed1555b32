package extract

import (
	"regexp"
	"strconv"
)

var (
	distUnitRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*km\b`)
	bareRunRe   = regexp.MustCompile(`\b(\d{3,5})\b`)
	distTokenRe = regexp.MustCompile(`거리|dist|km`)
)

// generateDistance scans for "<n> km" matches and, on distance-labelled
// lines, reinterprets bare digit runs whose decimal separator OCR dropped
// ("1002" -> 10.02 or 100.2). The reconstructed variants score below the
// explicit km pattern so a clean match always outranks them.
func (e *Engine) generateDistance(lines []Line, anchors []Anchor, pctx *Context) []Candidate {
	cfg := e.cfg.Distance
	var out []Candidate
	for _, ln := range lines {
		adjust := e.proximityScore(ln.Index, anchors)
		if pctx.fromROI() {
			adjust += e.cfg.ROIBonus
		}
		if ln.PositionRatio <= e.cfg.TopOverlayRatio {
			// Status-bar numbers cluster at the top of the page.
			adjust += cfg.OverlayPenalty
		}

		for _, m := range distUnitRe.FindAllStringSubmatch(ln.Normalized, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || !cfg.Bounds.Contains(v) {
				continue
			}
			out = append(out, Candidate{
				Field:      FieldDistance,
				Number:     v,
				Score:      cfg.UnitWeight + adjust,
				Reason:     "km pattern",
				SourceLine: ln.Normalized,
			})
		}

		if !distTokenRe.MatchString(ln.Normalized) {
			continue
		}
		for _, m := range bareRunRe.FindAllStringSubmatch(ln.Normalized, -1) {
			digits := m[1]
			for _, variant := range []struct {
				fromRight int
				weight    float64
			}{
				{2, cfg.RecoverHighWeight},
				{1, cfg.RecoverLowWeight},
			} {
				cut := len(digits) - variant.fromRight
				if cut <= 0 {
					continue
				}
				v, err := strconv.ParseFloat(digits[:cut]+"."+digits[cut:], 64)
				if err != nil || !cfg.Bounds.Contains(v) {
					continue
				}
				out = append(out, Candidate{
					Field:      FieldDistance,
					Number:     v,
					Score:      variant.weight + adjust,
					Reason:     "decimal-point recovery",
					SourceLine: ln.Normalized,
				})
			}
		}
	}
	return out
}
