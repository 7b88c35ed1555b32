package extract

import "fmt"

// Field identifies one of the five workout metrics the engine recovers.
type Field int

const (
	FieldDistance Field = iota
	FieldDuration
	FieldPace
	FieldAvgHR
	FieldCalories
)

// Fields returns all fields in canonical order.
func Fields() []Field {
	return []Field{FieldDistance, FieldDuration, FieldPace, FieldAvgHR, FieldCalories}
}

func (f Field) String() string {
	switch f {
	case FieldDistance:
		return "distance"
	case FieldDuration:
		return "duration"
	case FieldPace:
		return "pace"
	case FieldAvgHR:
		return "avg_hr"
	case FieldCalories:
		return "calories"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler so Field can key JSON maps.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(b []byte) error {
	switch string(b) {
	case "distance":
		*f = FieldDistance
	case "duration":
		*f = FieldDuration
	case "pace":
		*f = FieldPace
	case "avg_hr":
		*f = FieldAvgHR
	case "calories":
		*f = FieldCalories
	default:
		return fmt.Errorf("unknown field %q", string(b))
	}
	return nil
}

// Bounds is a closed plausibility interval for a field's numeric value.
// Distance is in km, duration and pace in seconds, heart rate in bpm,
// calories in kcal. Values outside the interval are never emitted as
// candidates.
type Bounds struct {
	Min float64 `mapstructure:"min" yaml:"min" json:"min"`
	Max float64 `mapstructure:"max" yaml:"max" json:"max"`
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}
