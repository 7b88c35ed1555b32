package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KoreanSummary(t *testing.T) {
	e := NewDefault()
	text := strings.Join([]string{
		"거리 8.29 km",
		"총 시간 55:18",
		"평균 페이스 6:40 / km",
		"평균 심박수 153 bpm",
		"총 칼로리 612 kcal",
	}, "\n")

	res := e.Parse(text, nil)

	require.NotNil(t, res.Values.Distance)
	assert.InDelta(t, 8.29, *res.Values.Distance, 1e-9)
	require.NotNil(t, res.Values.Duration)
	assert.Equal(t, "55:18", res.Values.Duration.Display)
	require.NotNil(t, res.Values.Pace)
	assert.Equal(t, "6:40", res.Values.Pace.Display)
	require.NotNil(t, res.Values.AvgHR)
	assert.Equal(t, 153, *res.Values.AvgHR)
	require.NotNil(t, res.Values.Calories)
	assert.Equal(t, 612, *res.Values.Calories)
	assert.Empty(t, res.MissingFields())
	assert.Positive(t, res.TotalScore)
}

func TestParse_DroppedDecimalRecovery(t *testing.T) {
	e := NewDefault()
	res := e.Parse("dist\nDISTANCE 1002 km", nil)

	require.NotNil(t, res.Values.Distance)
	assert.InDelta(t, 10.02, *res.Values.Distance, 1e-9)

	ranked := res.Candidates[FieldDistance]
	require.NotEmpty(t, ranked)
	assert.Equal(t, "decimal-point recovery", ranked[0].Reason)
	for _, c := range ranked {
		assert.False(t, math.Abs(c.Number-1002.0) < 1e-9, "out-of-bounds raw value must never surface")
	}
}

func TestParse_StatusBarClockSuppression(t *testing.T) {
	e := NewDefault()
	text := "22:14\nsome header\nTIME 00:52:44\nfooter"
	res := e.Parse(text, nil)

	require.NotNil(t, res.Values.Duration)
	assert.Equal(t, "00:52:44", res.Values.Duration.Display)
}

func TestParse_ApostrophePaceWithConsistencyBonus(t *testing.T) {
	e := NewDefault()
	text := strings.Join([]string{
		"Distance 12.48 km",
		"Time 1:10:22",
		"pace 5'38 / km",
	}, "\n")
	res := e.Parse(text, nil)

	require.NotNil(t, res.Values.Pace)
	assert.Equal(t, "5:38", res.Values.Pace.Display)

	found := false
	for _, r := range res.Reasons {
		if strings.Contains(r, "pace consistency") {
			found = true
		}
	}
	assert.True(t, found, "reasons should record the consistency delta: %v", res.Reasons)
}

func TestParse_EmptyInput(t *testing.T) {
	e := NewDefault()
	res := e.Parse("", nil)

	assert.Nil(t, res.Values.Distance)
	assert.Nil(t, res.Values.Duration)
	assert.Nil(t, res.Values.Pace)
	assert.Nil(t, res.Values.AvgHR)
	assert.Nil(t, res.Values.Calories)
	assert.Empty(t, res.Candidates)
	assert.Negative(t, res.TotalScore)
	assert.Len(t, res.MissingFields(), 5)

	// All-missing score is the deterministic sum of placeholder penalties.
	cfg := DefaultConfig().Combine
	assert.InDelta(t, 5*cfg.MissingPenalty, res.TotalScore, 1e-9)
}

func TestParse_Deterministic(t *testing.T) {
	e := NewDefault()
	text := "거리 8.29 km\n총 시간 55:18\n평균 페이스 6:40 /km\n153 bpm\n612 kcal"
	ctx := &Context{ROISource: SourceDetectedROI, PipelineName: "binarized"}

	first, err := json.Marshal(e.Parse(text, ctx))
	require.NoError(t, err)
	for range 10 {
		again, err := json.Marshal(e.Parse(text, ctx))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestParse_ROIBonusBiasesScores(t *testing.T) {
	e := NewDefault()
	text := "거리 8.29 km\n총 시간 55:18"
	plain := e.Parse(text, nil)
	roi := e.Parse(text, &Context{ROISource: SourceDetectedROI})
	assert.Greater(t, roi.TotalScore, plain.TotalScore)
}

func TestParse_PartialRecovery(t *testing.T) {
	e := NewDefault()
	res := e.Parse("평균 심박수 153 bpm", nil)

	assert.Nil(t, res.Values.Distance)
	require.NotNil(t, res.Values.AvgHR)
	assert.Equal(t, 153, *res.Values.AvgHR)
	assert.Contains(t, res.MissingFields(), "거리 추출 실패")
}

func TestParse_DerivedPaceSynthesis(t *testing.T) {
	e := NewDefault()
	res := e.Parse("거리 10.0 km\n총 시간 55:00", nil)

	require.NotNil(t, res.Values.Pace)
	assert.Equal(t, 330, res.Values.Pace.Seconds)
	assert.Equal(t, "5:30", res.Values.Pace.Display)
	assert.Contains(t, res.Reasons, "derived pace used")
}

// Plausibility bounds must hold for every candidate regardless of input; feed
// the generators noisy numeric soup and assert nothing out of bounds leaks.
func TestParse_BoundsInvariant(t *testing.T) {
	e := NewDefault()
	cfg := e.Config()
	bounds := map[Field]Bounds{
		FieldDistance: cfg.Distance.Bounds,
		FieldDuration: cfg.Duration.Bounds,
		FieldPace:     cfg.Pace.Bounds,
		FieldAvgHR:    cfg.AvgHR.Bounds,
		FieldCalories: cfg.Calories.Bounds,
	}

	var texts []string
	for i := range 200 {
		texts = append(texts,
			fmt.Sprintf("거리 %d km", i*7),
			fmt.Sprintf("distance %d.%02d km", i*13, i%100),
			fmt.Sprintf("시간 %d:%02d", i, (i*3)%100),
			fmt.Sprintf("time %d:%02d:%02d", i%30, i%60, (i*7)%60),
			fmt.Sprintf("pace %d:%02d /km", i%20, i%60),
			fmt.Sprintf("심박수 %d bpm", i*11),
			fmt.Sprintf("칼로리 %d kcal", i*37),
			fmt.Sprintf("hr 심박 %ds%d", i%10, i%10),
		)
	}
	res := e.Parse(strings.Join(texts, "\n"), nil)
	for f, ranked := range res.Candidates {
		for _, c := range ranked {
			v := c.Number
			if c.Clock != nil {
				v = float64(c.Clock.Seconds)
			}
			assert.True(t, bounds[f].Contains(v), "field %s candidate %v out of bounds", f, v)
		}
	}
}

// For a fixed distance/duration pair, increasing pace deviation from the
// derived pace must never increase the combination contribution.
func TestConsistencyBonus_Monotonic(t *testing.T) {
	e := NewDefault()
	dist := &Candidate{Field: FieldDistance, Number: 10, Score: 40}
	dur := &Candidate{Field: FieldDuration, Clock: &Clock{Display: "55:00", Seconds: 3300}, Score: 40}

	prev := 0.0
	for i, deltaSec := range []int{0, 5, 10, 30, 60, 120, 300, 600} {
		pace := &Candidate{Field: FieldPace, Clock: ClockPtr(330 + deltaSec), Score: 40}
		bonus := e.consistencyBonus(dist, dur, pace, nil)
		if i > 0 {
			assert.LessOrEqual(t, bonus, prev, "bonus increased at delta %ds", deltaSec)
		}
		prev = bonus
	}
}

// ClockPtr builds a pace clock for tests.
func ClockPtr(sec int) *Clock {
	c := ClockFromSeconds(sec)
	return &c
}
