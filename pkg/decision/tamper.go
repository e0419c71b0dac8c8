package decision

import (
	"fmt"
	"math"
	"time"

	"github.com/premonitor/premonitor/pkg/models"
)

// TamperConfig holds the physical-interference thresholds. A vibration
// spike means the unit is being moved or struck; a rapid temperature
// swing means a door left open or a disabled compressor. A zero
// threshold disables that check.
type TamperConfig struct {
	VibrationThresholdG    float64
	TemperatureRateCPerMin float64
}

type tamperBaseline struct {
	tempC float64
	at    time.Time
}

// TamperDetector inspects raw readings for interference indicators,
// independent of any model score. It keeps one temperature baseline per
// equipment id; the control thread is its only caller.
type TamperDetector struct {
	cfg       TamperConfig
	baselines map[string]tamperBaseline
}

func NewTamperDetector(cfg TamperConfig) *TamperDetector {
	return &TamperDetector{
		cfg:       cfg,
		baselines: make(map[string]tamperBaseline),
	}
}

// Check evaluates one cycle's readings and advances the temperature
// baseline. The first cycle for a unit can never trigger the rate check.
func (t *TamperDetector) Check(equipmentID string, readings map[models.SensorKind]models.SensorReading, now time.Time) []models.Signal {
	var signals []models.Signal

	if vib, ok := readings[models.SensorVibration]; ok && vib.Valid && vib.IsScalar() &&
		t.cfg.VibrationThresholdG > 0 && vib.Value >= t.cfg.VibrationThresholdG {
		signals = append(signals, models.Signal{
			Name:      models.SignalTamperVibration,
			Observed:  vib.Value,
			Threshold: t.cfg.VibrationThresholdG,
			RawSafety: true,
		})
	}

	temp, ok := readings[models.SensorTemperature]
	if !ok || !temp.Valid || !temp.IsScalar() {
		return signals
	}

	base, hasBase := t.baselines[equipmentID]
	t.baselines[equipmentID] = tamperBaseline{tempC: temp.Value, at: now}

	if !hasBase || t.cfg.TemperatureRateCPerMin <= 0 {
		return signals
	}

	minutes := now.Sub(base.at).Minutes()
	if minutes <= 0 {
		return signals
	}

	rate := math.Abs(temp.Value-base.tempC) / minutes
	if rate > t.cfg.TemperatureRateCPerMin {
		signals = append(signals, models.Signal{
			Name:      models.SignalTamperTemperatureRate,
			Observed:  rate,
			Threshold: t.cfg.TemperatureRateCPerMin,
			RawSafety: true,
		})
	}

	return signals
}

// Schedule is the staffed business-hours window. Outside it the site is
// unattended and any anomaly gets escalated.
type Schedule struct {
	startMin     int
	endMin       int
	openWeekends bool
}

// NewSchedule parses "HH:MM" bounds. openWeekends treats weekends as
// staffed; otherwise the whole weekend counts as after hours.
func NewSchedule(start, end string, openWeekends bool) (*Schedule, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return nil, err
	}

	endMin, err := parseClock(end)
	if err != nil {
		return nil, err
	}

	return &Schedule{startMin: startMin, endMin: endMin, openWeekends: openWeekends}, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", v, err)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// AfterHours reports whether t falls outside the staffed window.
func (s *Schedule) AfterHours(t time.Time) bool {
	if !s.openWeekends {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}

	min := t.Hour()*60 + t.Minute()

	return min < s.startMin || min > s.endMin
}
