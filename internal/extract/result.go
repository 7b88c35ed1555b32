package extract

// Values is the single selected combination. Nil means the field was not
// recovered; partial results are expected output, not errors.
type Values struct {
	Distance *float64 `json:"distance"`
	Duration *Clock   `json:"duration"`
	Pace     *Clock   `json:"pace"`
	AvgHR    *int     `json:"avg_hr"`
	Calories *int     `json:"calories"`
}

// Result is the engine's output for one extraction call. Candidates preserves
// every ranked alternative so an operator can override the selection.
type Result struct {
	Values         Values                `json:"values"`
	Candidates     map[Field][]Candidate `json:"candidates"`
	Reasons        []string              `json:"reasons"`
	TotalScore     float64               `json:"total_score"`
	NormalizedText string                `json:"normalized_text"`
}

// missingWarnings are the user-visible per-field warnings, matching the
// running-log form's phrasing.
var missingWarnings = map[Field]string{
	FieldDistance: "거리 추출 실패",
	FieldDuration: "시간 추출 실패",
	FieldPace:     "페이스 추출/계산 실패",
	FieldAvgHR:    "평균심박 추출 실패",
	FieldCalories: "칼로리 추출 실패",
}

func valuesMissing(v Values) []Field {
	var missing []Field
	if v.Distance == nil {
		missing = append(missing, FieldDistance)
	}
	if v.Duration == nil {
		missing = append(missing, FieldDuration)
	}
	if v.Pace == nil {
		missing = append(missing, FieldPace)
	}
	if v.AvgHR == nil {
		missing = append(missing, FieldAvgHR)
	}
	if v.Calories == nil {
		missing = append(missing, FieldCalories)
	}
	return missing
}

// MissingFields returns the warning list the form-filling collaborator
// surfaces for unrecovered fields.
func (r *Result) MissingFields() []string {
	var warnings []string
	for _, f := range valuesMissing(r.Values) {
		warnings = append(warnings, missingWarnings[f])
	}
	return warnings
}

// TopCandidates returns up to n ranked candidates for a field, for the
// candidate-review surface.
func (r *Result) TopCandidates(f Field, n int) []Candidate {
	c := r.Candidates[f]
	if len(c) > n {
		c = c[:n]
	}
	return c
}
