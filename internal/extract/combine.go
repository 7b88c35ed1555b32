package extract

import (
	"fmt"
	"math"
)

// selectCombination performs the bounded search over the three numerically
// linked fields. Distance, duration and pace are tied by
// pace = duration / distance; the search rewards triples whose derived pace
// is plausible and agrees with the detected pace candidate. Heart rate and
// calories do not interact with anything, so their best candidates are folded
// in without search.
func (e *Engine) selectCombination(cands map[Field][]Candidate) (Values, []string, float64) {
	cfg := e.cfg.Combine
	dist := e.topOrPlaceholder(cands[FieldDistance])
	dur := e.topOrPlaceholder(cands[FieldDuration])
	pace := e.topOrPlaceholder(cands[FieldPace])

	bestScore := math.Inf(-1)
	var bestD, bestU, bestP *Candidate
	for _, d := range dist {
		for _, u := range dur {
			for _, p := range pace {
				s := e.candidateScore(d) + e.candidateScore(u) + e.candidateScore(p)
				s += e.consistencyBonus(d, u, p, nil)
				// Strict comparison keeps the first-found triple on ties,
				// so higher individually-ranked candidates win.
				if s > bestScore {
					bestScore = s
					bestD, bestU, bestP = d, u, p
				}
			}
		}
	}

	var reasons []string
	total := e.candidateScore(bestD) + e.candidateScore(bestU) + e.candidateScore(bestP)
	total += e.consistencyBonus(bestD, bestU, bestP, &reasons)

	var values Values
	if bestD != nil {
		v := bestD.Number
		values.Distance = &v
		reasons = append(reasons, fmt.Sprintf("distance %s via %s (score %.1f)", bestD.Value(), bestD.Reason, bestD.Score))
	} else {
		reasons = append(reasons, "no distance candidate")
	}
	if bestU != nil {
		c := *bestU.Clock
		values.Duration = &c
		reasons = append(reasons, fmt.Sprintf("duration %s via %s (score %.1f)", bestU.Value(), bestU.Reason, bestU.Score))
	} else {
		reasons = append(reasons, "no duration candidate")
	}
	switch {
	case bestP != nil:
		c := *bestP.Clock
		values.Pace = &c
		reasons = append(reasons, fmt.Sprintf("pace %s via %s (score %.1f)", bestP.Value(), bestP.Reason, bestP.Score))
	default:
		if c, ok := e.derivedPace(bestD, bestU); ok {
			values.Pace = &c
			reasons = append(reasons, "derived pace used")
		} else {
			reasons = append(reasons, "no pace candidate")
		}
	}

	for _, v := range []struct {
		field Field
		set   func(Candidate)
	}{
		{FieldAvgHR, func(c Candidate) { n := int(c.Number); values.AvgHR = &n }},
		{FieldCalories, func(c Candidate) { n := int(c.Number); values.Calories = &n }},
	} {
		if ranked := cands[v.field]; len(ranked) > 0 {
			best := ranked[0]
			v.set(best)
			total += best.Score
			reasons = append(reasons, fmt.Sprintf("%s %s via %s (score %.1f)", v.field, best.Value(), best.Reason, best.Score))
		} else {
			total += cfg.MissingPenalty
			reasons = append(reasons, fmt.Sprintf("no %s candidate", v.field))
		}
	}

	return values, reasons, total
}

// topOrPlaceholder returns up to TopCandidates entries, or a single nil
// placeholder when the field produced nothing. The placeholder keeps the
// cross product well-formed and contributes MissingPenalty to the score.
func (e *Engine) topOrPlaceholder(ranked []Candidate) []*Candidate {
	if len(ranked) == 0 {
		return []*Candidate{nil}
	}
	n := e.cfg.Combine.TopCandidates
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]*Candidate, n)
	for i := range n {
		out[i] = &ranked[i]
	}
	return out
}

func (e *Engine) candidateScore(c *Candidate) float64 {
	if c == nil {
		return e.cfg.Combine.MissingPenalty
	}
	return c.Score
}

// consistencyBonus scores the arithmetic agreement of one (distance,
// duration, pace) triple. The linear-decay comparison uses the wide-cap
// formula cap - delta/slope clamped at the floor; it is monotonically
// non-increasing in the pace deviation.
func (e *Engine) consistencyBonus(d, u, p *Candidate, reasons *[]string) float64 {
	if d == nil || u == nil || d.Number <= 0 {
		return 0
	}
	cfg := e.cfg.Combine
	derived := float64(u.Clock.Seconds) / d.Number
	bonus := 0.0
	if e.cfg.Pace.Bounds.Contains(derived) {
		bonus += cfg.DerivedValidBonus
		if p == nil {
			bonus += cfg.DerivedUseBonus
		}
	}
	if p != nil {
		delta := math.Abs(float64(p.Clock.Seconds) - derived)
		agreement := cfg.ConsistencyCap - delta/cfg.ConsistencySlope
		if agreement < cfg.ConsistencyFloor {
			agreement = cfg.ConsistencyFloor
		}
		bonus += agreement
		if reasons != nil {
			*reasons = append(*reasons,
				fmt.Sprintf("pace consistency: derived %.0fs/km, delta %.0fs, bonus %.1f", derived, delta, agreement))
		}
	}
	return bonus
}

// derivedPace synthesizes a pace value from distance and duration when no
// textual pace candidate exists.
func (e *Engine) derivedPace(d, u *Candidate) (Clock, bool) {
	if d == nil || u == nil || d.Number <= 0 {
		return Clock{}, false
	}
	derived := float64(u.Clock.Seconds) / d.Number
	if !e.cfg.Pace.Bounds.Contains(derived) {
		return Clock{}, false
	}
	return ClockFromSeconds(int(math.Round(derived))), true
}
