package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	hrUnitRe    = regexp.MustCompile(`\b(\d{2,3})\s*bpm\b`)
	hrTokenRe   = regexp.MustCompile(`심박|heart|bpm|\bhr\b`)
	calUnitRe   = regexp.MustCompile(`\b(\d{2,4})\s*kcal\b`)
	calTokenRe  = regexp.MustCompile(`칼로리|kcal|calor|\bcal\b`)
	numericWord = regexp.MustCompile(`^[0-9olsbi.]+$`)
)

// generateAvgHR scans for "<n> bpm" and, on heart-rate-labelled lines,
// digit-repairs short tokens ("1S3" -> 153).
func (e *Engine) generateAvgHR(lines []Line, anchors []Anchor, pctx *Context) []Candidate {
	return e.generateVital(lines, anchors, pctx, FieldAvgHR, e.cfg.AvgHR, hrUnitRe, hrTokenRe, "bpm pattern", 2, 3)
}

// generateCalories scans for "<n> kcal" and digit-repaired numbers on
// calorie-labelled lines.
func (e *Engine) generateCalories(lines []Line, anchors []Anchor, pctx *Context) []Candidate {
	return e.generateVital(lines, anchors, pctx, FieldCalories, e.cfg.Calories, calUnitRe, calTokenRe, "kcal pattern", 2, 4)
}

// generateVital is the shared scan for the two independent numeric fields.
// These never participate in cross-field arithmetic, so the generator is a
// plain pattern-plus-label-recovery pass.
func (e *Engine) generateVital(lines []Line, anchors []Anchor, pctx *Context, field Field,
	cfg VitalConfig, unitRe, tokenRe *regexp.Regexp, unitReason string, minDigits, maxDigits int,
) []Candidate {
	var out []Candidate
	for _, ln := range lines {
		adjust := e.proximityScore(ln.Index, anchors)
		if pctx.fromROI() {
			adjust += e.cfg.ROIBonus
		}

		for _, m := range unitRe.FindAllStringSubmatch(ln.Normalized, -1) {
			v, err := strconv.Atoi(m[1])
			if err != nil || !cfg.Bounds.Contains(float64(v)) {
				continue
			}
			out = append(out, Candidate{
				Field:      field,
				Number:     float64(v),
				Score:      cfg.UnitWeight + adjust,
				Reason:     unitReason,
				SourceLine: ln.Normalized,
			})
		}

		if !tokenRe.MatchString(ln.Normalized) {
			continue
		}
		for _, tok := range strings.Fields(ln.Normalized) {
			if !numericWord.MatchString(tok) {
				continue
			}
			digits := FixNumericToken(tok, false)
			if len(digits) < minDigits || len(digits) > maxDigits {
				continue
			}
			v, err := strconv.Atoi(digits)
			if err != nil || !cfg.Bounds.Contains(float64(v)) {
				continue
			}
			out = append(out, Candidate{
				Field:      field,
				Number:     float64(v),
				Score:      cfg.ContextWeight + adjust,
				Reason:     "digit repair on labelled line",
				SourceLine: ln.Normalized,
			})
		}
	}
	return out
}
