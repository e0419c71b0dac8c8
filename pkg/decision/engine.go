// Package decision turns one cycle's model scores and raw readings into
// an anomaly verdict. Rules are independent and non-exclusive: the raw
// sensor path runs whether or not any model produced a score, so a model
// failure can never mask a safety condition.
package decision

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

// Engine evaluates threshold profiles. Per-unit state is limited to the
// tamper baselines, touched only by the control thread.
type Engine struct {
	logger *zap.Logger
	tamper *TamperDetector
	hours  *Schedule
	nowFn  func() time.Time
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger, nowFn: time.Now}
}

// WithSecurity attaches tamper detection and the after-hours schedule.
// Either may be nil to leave that rule off.
func (e *Engine) WithSecurity(tamper *TamperDetector, hours *Schedule) *Engine {
	e.tamper = tamper
	e.hours = hours

	return e
}

// SignalForModel maps a model kind to the signal name its score triggers.
func SignalForModel(kind models.ModelKind) string {
	switch kind {
	case models.ModelThermalCNN:
		return models.SignalThermalConfidence
	case models.ModelAcousticCNN:
		return models.SignalAcousticConfidence
	case models.ModelSequenceAE:
		return models.SignalSequenceReconstruction
	default:
		return ""
	}
}

// Evaluate applies the unit kind's profile to this cycle's scores and
// readings. scores is keyed by signal name and contains only the scores
// that are actually available this cycle; an absent score never triggers
// anything.
func (e *Engine) Evaluate(
	unit *models.EquipmentUnit,
	profile models.ThresholdProfile,
	scores map[string]float64,
	readings map[models.SensorKind]models.SensorReading,
) models.AnomalyVerdict {
	verdict := models.AnomalyVerdict{
		EquipmentID: unit.ID,
		Timestamp:   e.nowFn(),
	}

	// Rule 1: per-model thresholds.
	for _, name := range sortedKeys(profile.ModelSignals) {
		threshold := profile.ModelSignals[name]

		score, ok := scores[name]
		if !ok {
			continue
		}

		if threshold.Crossed(score) {
			verdict.Signals = append(verdict.Signals, models.Signal{
				Name:      name,
				Observed:  score,
				Threshold: threshold.Bound(score),
			})
		}
	}

	// Rule 2: raw-sensor thresholds, the non-ML safety path.
	for _, name := range sortedKeys(profile.SensorSignals) {
		st := profile.SensorSignals[name]

		reading, ok := readings[st.Sensor]
		if !ok || !reading.Valid || !reading.IsScalar() {
			continue
		}

		if st.Crossed(reading.Value) {
			verdict.Signals = append(verdict.Signals, models.Signal{
				Name:      name,
				Observed:  reading.Value,
				Threshold: st.Bound(reading.Value),
				RawSafety: true,
			})
		}
	}

	// Rule 3: fusion. Two independently weak model signals over the
	// correlation threshold make one composite trigger.
	if profile.Fusion > 0 {
		thermal, hasThermal := scores[models.SignalThermalConfidence]
		acoustic, hasAcoustic := scores[models.SignalAcousticConfidence]

		if hasThermal && hasAcoustic && thermal >= profile.Fusion && acoustic >= profile.Fusion {
			observed := thermal
			if acoustic < observed {
				observed = acoustic
			}

			verdict.Signals = append(verdict.Signals, models.Signal{
				Name:      models.SignalCorrelatedAnomaly,
				Observed:  observed,
				Threshold: profile.Fusion,
			})
		}
	}

	// Rule 4: tamper indicators. These ride the raw-safety path, so
	// they are always critical and never rate-limited.
	if e.tamper != nil {
		verdict.Signals = append(verdict.Signals,
			e.tamper.Check(unit.ID, readings, verdict.Timestamp)...)
	}

	verdict.Severity = severity(unit, verdict.Signals)

	// An unattended site escalates every anomaly.
	if e.hours != nil && verdict.Severity == models.SeverityWarning && e.hours.AfterHours(verdict.Timestamp) {
		verdict.Severity = models.SeverityCritical
	}

	if !verdict.Empty() {
		names := make([]string, len(verdict.Signals))
		for i, s := range verdict.Signals {
			names[i] = s.Name
		}

		e.logger.Warn("anomaly verdict",
			zap.String("equipment_id", unit.ID),
			zap.Strings("signals", names),
			zap.String("severity", string(verdict.Severity)))
	}

	return verdict
}

func severity(unit *models.EquipmentUnit, signals []models.Signal) models.Severity {
	if len(signals) == 0 {
		return models.SeverityNone
	}

	if unit.Critical {
		return models.SeverityCritical
	}

	for _, s := range signals {
		if s.RawSafety {
			return models.SeverityCritical
		}
	}

	return models.SeverityWarning
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
