package extract

import "log/slog"

// Config holds every tunable weight, threshold and plausibility bound of the
// extraction engine. Engines with different tunings can run concurrently;
// nothing here is package-level mutable state.
type Config struct {
	// Label locator
	LabelThreshold      float64 `mapstructure:"label_threshold" yaml:"label_threshold" json:"label_threshold"`
	ProximityDecayLines int     `mapstructure:"proximity_decay_lines" yaml:"proximity_decay_lines" json:"proximity_decay_lines"`
	ClosenessWeight     float64 `mapstructure:"closeness_weight" yaml:"closeness_weight" json:"closeness_weight"`
	StrengthWeight      float64 `mapstructure:"strength_weight" yaml:"strength_weight" json:"strength_weight"`

	// Context adjustments
	ROIBonus        float64 `mapstructure:"roi_bonus" yaml:"roi_bonus" json:"roi_bonus"`
	TopOverlayRatio float64 `mapstructure:"top_overlay_ratio" yaml:"top_overlay_ratio" json:"top_overlay_ratio"`

	// Per-field generator tuning
	Distance DistanceConfig `mapstructure:"distance" yaml:"distance" json:"distance"`
	Duration DurationConfig `mapstructure:"duration" yaml:"duration" json:"duration"`
	Pace     PaceConfig     `mapstructure:"pace" yaml:"pace" json:"pace"`
	AvgHR    VitalConfig    `mapstructure:"avg_hr" yaml:"avg_hr" json:"avg_hr"`
	Calories VitalConfig    `mapstructure:"calories" yaml:"calories" json:"calories"`

	// Joint combination selector
	Combine CombineConfig `mapstructure:"combine" yaml:"combine" json:"combine"`
}

// DistanceConfig tunes the distance generator. Bounds are in km.
type DistanceConfig struct {
	Bounds            Bounds  `mapstructure:"bounds" yaml:"bounds" json:"bounds"`
	UnitWeight        float64 `mapstructure:"unit_weight" yaml:"unit_weight" json:"unit_weight"`
	RecoverHighWeight float64 `mapstructure:"recover_high_weight" yaml:"recover_high_weight" json:"recover_high_weight"`
	RecoverLowWeight  float64 `mapstructure:"recover_low_weight" yaml:"recover_low_weight" json:"recover_low_weight"`
	OverlayPenalty    float64 `mapstructure:"overlay_penalty" yaml:"overlay_penalty" json:"overlay_penalty"`
}

// DurationConfig tunes the duration generator. Bounds are in seconds.
type DurationConfig struct {
	Bounds         Bounds  `mapstructure:"bounds" yaml:"bounds" json:"bounds"`
	BaseWeight     float64 `mapstructure:"base_weight" yaml:"base_weight" json:"base_weight"`
	ClockPenalty   float64 `mapstructure:"clock_penalty" yaml:"clock_penalty" json:"clock_penalty"`
	OverlayPenalty float64 `mapstructure:"overlay_penalty" yaml:"overlay_penalty" json:"overlay_penalty"`
	StatusPenalty  float64 `mapstructure:"status_penalty" yaml:"status_penalty" json:"status_penalty"`
}

// PaceConfig tunes the pace generator. Bounds are in seconds per km.
type PaceConfig struct {
	Bounds        Bounds  `mapstructure:"bounds" yaml:"bounds" json:"bounds"`
	UnitWeight    float64 `mapstructure:"unit_weight" yaml:"unit_weight" json:"unit_weight"`
	ContextWeight float64 `mapstructure:"context_weight" yaml:"context_weight" json:"context_weight"`
}

// VitalConfig tunes the heart-rate and calorie generators.
type VitalConfig struct {
	Bounds        Bounds  `mapstructure:"bounds" yaml:"bounds" json:"bounds"`
	UnitWeight    float64 `mapstructure:"unit_weight" yaml:"unit_weight" json:"unit_weight"`
	ContextWeight float64 `mapstructure:"context_weight" yaml:"context_weight" json:"context_weight"`
}

// CombineConfig tunes the joint combination selector.
type CombineConfig struct {
	TopCandidates     int     `mapstructure:"top_candidates" yaml:"top_candidates" json:"top_candidates"`
	MissingPenalty    float64 `mapstructure:"missing_penalty" yaml:"missing_penalty" json:"missing_penalty"`
	DerivedValidBonus float64 `mapstructure:"derived_valid_bonus" yaml:"derived_valid_bonus" json:"derived_valid_bonus"`
	ConsistencyCap    float64 `mapstructure:"consistency_cap" yaml:"consistency_cap" json:"consistency_cap"`
	ConsistencySlope  float64 `mapstructure:"consistency_slope" yaml:"consistency_slope" json:"consistency_slope"`
	ConsistencyFloor  float64 `mapstructure:"consistency_floor" yaml:"consistency_floor" json:"consistency_floor"`
	DerivedUseBonus   float64 `mapstructure:"derived_use_bonus" yaml:"derived_use_bonus" json:"derived_use_bonus"`
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		LabelThreshold:      0.62,
		ProximityDecayLines: 4,
		ClosenessWeight:     30,
		StrengthWeight:      20,
		ROIBonus:            5,
		TopOverlayRatio:     0.2,
		Distance: DistanceConfig{
			Bounds:            Bounds{Min: 0.5, Max: 60},
			UnitWeight:        40,
			RecoverHighWeight: 30,
			RecoverLowWeight:  26,
			OverlayPenalty:    -8,
		},
		Duration: DurationConfig{
			Bounds:         Bounds{Min: 120, Max: 28800},
			BaseWeight:     40,
			ClockPenalty:   -100,
			OverlayPenalty: -35,
			StatusPenalty:  -120,
		},
		Pace: PaceConfig{
			Bounds:        Bounds{Min: 180, Max: 750},
			UnitWeight:    45,
			ContextWeight: 30,
		},
		AvgHR: VitalConfig{
			Bounds:        Bounds{Min: 60, Max: 220},
			UnitWeight:    40,
			ContextWeight: 28,
		},
		Calories: VitalConfig{
			Bounds:        Bounds{Min: 30, Max: 5000},
			UnitWeight:    40,
			ContextWeight: 28,
		},
		Combine: CombineConfig{
			TopCandidates:     5,
			MissingPenalty:    -20,
			DerivedValidBonus: 20,
			ConsistencyCap:    25,
			ConsistencySlope:  4,
			ConsistencyFloor:  -15,
			DerivedUseBonus:   12,
		},
	}
}

// Engine extracts workout metrics from OCR text. It is stateless across
// calls; Parse is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine with the given tuning.
func New(cfg Config) *Engine {
	if cfg.ProximityDecayLines <= 0 {
		cfg.ProximityDecayLines = 4
	}
	if cfg.Combine.TopCandidates <= 0 {
		cfg.Combine.TopCandidates = 5
	}
	return &Engine{cfg: cfg}
}

// NewDefault creates an engine with DefaultConfig.
func NewDefault() *Engine { return New(DefaultConfig()) }

// Config returns the engine's tuning.
func (e *Engine) Config() Config { return e.cfg }

// Parse runs the full extraction over one OCR text. Malformed or empty input
// is a normal case: it yields zero candidates, all-null values and a low
// negative total score, never an error.
func (e *Engine) Parse(text string, pctx *Context) *Result {
	normalized := Normalize(text)
	lines := SplitLines(normalized)
	anchors := e.locateLabels(lines)
	slog.Debug("extraction scan",
		"lines", len(lines),
		"pipeline", pctx.Name(),
		"roi_source", pctx.Source())

	cands := make(map[Field][]Candidate, 5)
	for _, f := range Fields() {
		var raw []Candidate
		switch f {
		case FieldDistance:
			raw = e.generateDistance(lines, anchors[f], pctx)
		case FieldDuration:
			raw = e.generateDuration(lines, anchors[f], pctx)
		case FieldPace:
			raw = e.generatePace(lines, anchors[f], pctx)
		case FieldAvgHR:
			raw = e.generateAvgHR(lines, anchors[f], pctx)
		case FieldCalories:
			raw = e.generateCalories(lines, anchors[f], pctx)
		}
		if ranked := Dedupe(raw); len(ranked) > 0 {
			cands[f] = ranked
		}
	}

	values, reasons, total := e.selectCombination(cands)
	slog.Debug("extraction selected", "total_score", total, "missing", len(valuesMissing(values)))
	return &Result{
		Values:         values,
		Candidates:     cands,
		Reasons:        reasons,
		TotalScore:     total,
		NormalizedText: normalized,
	}
}
