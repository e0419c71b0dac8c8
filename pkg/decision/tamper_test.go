package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

func testTamperConfig() TamperConfig {
	return TamperConfig{VibrationThresholdG: 2.0, TemperatureRateCPerMin: 5.0}
}

func TestTamperVibrationSpike(t *testing.T) {
	td := NewTamperDetector(testTamperConfig())
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	signals := td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorVibration: scalar(models.SensorVibration, 2.4),
	}, now)

	require.Len(t, signals, 1)
	assert.Equal(t, models.SignalTamperVibration, signals[0].Name)
	assert.InDelta(t, 2.4, signals[0].Observed, 1e-9)
	assert.InDelta(t, 2.0, signals[0].Threshold, 1e-9)
	assert.True(t, signals[0].RawSafety)
}

func TestTamperVibrationBelowThreshold(t *testing.T) {
	td := NewTamperDetector(testTamperConfig())

	signals := td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorVibration: scalar(models.SensorVibration, 0.3),
	}, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))

	assert.Empty(t, signals)
}

func TestTamperTemperatureRate(t *testing.T) {
	td := NewTamperDetector(testTamperConfig())
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	// First cycle only establishes the baseline.
	signals := td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: scalar(models.SensorTemperature, 4.5),
	}, now)
	assert.Empty(t, signals)

	// A 12 degree jump in one minute means the door is open.
	signals = td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: scalar(models.SensorTemperature, 16.5),
	}, now.Add(time.Minute))

	require.Len(t, signals, 1)
	assert.Equal(t, models.SignalTamperTemperatureRate, signals[0].Name)
	assert.InDelta(t, 12.0, signals[0].Observed, 1e-9)
	assert.True(t, signals[0].RawSafety)
}

func TestTamperSlowDriftIgnored(t *testing.T) {
	td := NewTamperDetector(testTamperConfig())
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: scalar(models.SensorTemperature, 4.5),
	}, now)

	// 2 degrees over one minute stays under the 5 per minute limit.
	signals := td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: scalar(models.SensorTemperature, 6.5),
	}, now.Add(time.Minute))

	assert.Empty(t, signals)
}

func TestTamperBaselinesArePerUnit(t *testing.T) {
	td := NewTamperDetector(testTamperConfig())
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: scalar(models.SensorTemperature, 4.5),
	}, now)

	// Another unit's first reading must not compare against the
	// baseline of fridge-a1.
	signals := td.Check("oven-b2", map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: scalar(models.SensorTemperature, 180),
	}, now.Add(time.Minute))

	assert.Empty(t, signals)
}

func TestTamperInvalidReadingIgnored(t *testing.T) {
	td := NewTamperDetector(testTamperConfig())

	vib := scalar(models.SensorVibration, 9.9)
	vib.Valid = false

	signals := td.Check("fridge-a1", map[models.SensorKind]models.SensorReading{
		models.SensorVibration: vib,
	}, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))

	assert.Empty(t, signals)
}

func TestScheduleAfterHours(t *testing.T) {
	hours, err := NewSchedule("08:00", "18:00", false)
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"weekday midday", time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), false},
		{"weekday opening minute", time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC), false},
		{"weekday evening", time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC), true},
		{"weekday early morning", time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC), true},
		{"saturday midday", time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC), true},
		{"sunday midday", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hours.AfterHours(tt.at))
		})
	}
}

func TestScheduleOpenWeekends(t *testing.T) {
	hours, err := NewSchedule("08:00", "18:00", true)
	require.NoError(t, err)

	assert.False(t, hours.AfterHours(time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)))
	assert.True(t, hours.AfterHours(time.Date(2025, 6, 7, 22, 0, 0, 0, time.UTC)))
}

func TestScheduleRejectsBadClock(t *testing.T) {
	_, err := NewSchedule("8am", "18:00", false)
	assert.Error(t, err)
}

func TestEvaluateTamperSignalIsCritical(t *testing.T) {
	e := testEngine(t)
	e.WithSecurity(NewTamperDetector(testTamperConfig()), nil)

	unit := &models.EquipmentUnit{ID: "fridge-a1", Kind: models.KindFridge}

	verdict := e.Evaluate(unit, fridgeProfile(), nil,
		map[models.SensorKind]models.SensorReading{
			models.SensorVibration: scalar(models.SensorVibration, 3.1),
		})

	require.Len(t, verdict.Signals, 1)
	assert.Equal(t, models.SignalTamperVibration, verdict.Signals[0].Name)
	assert.Equal(t, models.SeverityCritical, verdict.Severity)
}

func TestEvaluateAfterHoursEscalation(t *testing.T) {
	hours, err := NewSchedule("08:00", "18:00", false)
	require.NoError(t, err)

	e := NewEngine(zap.NewNop()).WithSecurity(nil, hours)
	unit := &models.EquipmentUnit{ID: "fridge-a1", Kind: models.KindFridge}
	scores := map[string]float64{models.SignalThermalConfidence: 0.90}

	// Midday on a Monday: plain warning.
	e.nowFn = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	verdict := e.Evaluate(unit, fridgeProfile(), scores, nil)
	assert.Equal(t, models.SeverityWarning, verdict.Severity)

	// The same anomaly at 2 AM has nobody around to check on it.
	e.nowFn = func() time.Time { return time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC) }
	verdict = e.Evaluate(unit, fridgeProfile(), scores, nil)
	assert.Equal(t, models.SeverityCritical, verdict.Severity)
}

func TestEvaluateAfterHoursLeavesNominalAlone(t *testing.T) {
	hours, err := NewSchedule("08:00", "18:00", false)
	require.NoError(t, err)

	e := NewEngine(zap.NewNop()).WithSecurity(nil, hours)
	e.nowFn = func() time.Time { return time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC) }

	unit := &models.EquipmentUnit{ID: "fridge-a1", Kind: models.KindFridge}

	verdict := e.Evaluate(unit, fridgeProfile(),
		map[string]float64{models.SignalThermalConfidence: 0.10}, nil)

	assert.True(t, verdict.Empty())
	assert.Equal(t, models.SeverityNone, verdict.Severity)
}
