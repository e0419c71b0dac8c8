package models

// Comparison selects how an observed value is tested against a threshold.
type Comparison string

const (
	CompareGTE     Comparison = "gte"
	CompareLTE     Comparison = "lte"
	CompareOutside Comparison = "outside"
)

// Threshold is one trigger entry in a ThresholdProfile. Value is used for
// gte/lte comparisons; Min/Max bound the acceptable range for outside.
type Threshold struct {
	Comparison Comparison `json:"comparison"`
	Value      float64    `json:"value,omitempty"`
	Min        float64    `json:"min,omitempty"`
	Max        float64    `json:"max,omitempty"`
}

// Crossed reports whether observed trips the threshold.
func (t Threshold) Crossed(observed float64) bool {
	switch t.Comparison {
	case CompareGTE:
		return observed >= t.Value
	case CompareLTE:
		return observed <= t.Value
	case CompareOutside:
		return observed < t.Min || observed > t.Max
	default:
		return false
	}
}

// Bound returns the threshold value a triggered signal should report: the
// configured value for gte/lte, the violated bound for outside.
func (t Threshold) Bound(observed float64) float64 {
	if t.Comparison == CompareOutside {
		if observed < t.Min {
			return t.Min
		}

		return t.Max
	}

	return t.Value
}

// SensorThreshold binds a raw-sensor trigger to the sensor it reads. Two
// signals may read the same sensor (a fridge temperature range and the
// hard fire limit both read "temperature").
type SensorThreshold struct {
	Sensor SensorKind `json:"sensor"`
	Threshold
}

// ThresholdProfile holds the trigger configuration for one equipment kind.
// Both maps are keyed by signal name ("thermal-confidence",
// "temperature-range", ...). Fusion is the correlation confidence for the
// correlated-anomaly rule; zero disables fusion for the kind.
type ThresholdProfile struct {
	ModelSignals  map[string]Threshold       `json:"model_signals"`
	SensorSignals map[string]SensorThreshold `json:"sensor_signals"`
	Fusion        float64                    `json:"fusion,omitempty"`
}
