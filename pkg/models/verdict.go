package models

import "time"

// Severity of a verdict or alert.
type Severity string

const (
	SeverityNone     Severity = ""
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Well-known model and fusion signal names. Raw-sensor signal names are
// defined per kind in the threshold profiles.
const (
	SignalThermalConfidence      = "thermal-confidence"
	SignalAcousticConfidence     = "acoustic-confidence"
	SignalSequenceReconstruction = "sequence-reconstruction"
	SignalCorrelatedAnomaly      = "correlated-anomaly"
	SignalTamperVibration        = "tamper-vibration"
	SignalTamperTemperatureRate  = "tamper-temperature-rate"
)

// Signal is one triggered rule in a verdict. RawSafety marks signals from
// the raw-sensor safety path; those are always critical and are never
// rate-limited by the dispatcher.
type Signal struct {
	Name      string  `json:"name"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
	RawSafety bool    `json:"raw_safety,omitempty"`
}

// AnomalyVerdict is the per-cycle, per-unit outcome of threshold and
// fusion evaluation. An empty signal set means the unit looked normal.
type AnomalyVerdict struct {
	EquipmentID string    `json:"equipment_id"`
	Signals     []Signal  `json:"signals"`
	Severity    Severity  `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
}

// Empty reports whether no rule triggered.
func (v *AnomalyVerdict) Empty() bool {
	return len(v.Signals) == 0
}
