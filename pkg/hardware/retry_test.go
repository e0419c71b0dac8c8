package hardware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

func testUnit() *models.EquipmentUnit {
	return &models.EquipmentUnit{
		ID:   "fridge-1",
		Kind: models.KindFridge,
		Sensors: map[models.SensorKind]models.SensorConfig{
			models.SensorThermal:     {Enabled: true},
			models.SensorAcoustic:    {Enabled: true},
			models.SensorTemperature: {Enabled: true},
		},
	}
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	unit := testUnit()
	want := models.SensorReading{EquipmentID: unit.ID, Sensor: models.SensorTemperature, Value: 4.2, Valid: true}

	inner := NewMockProvider(ctrl)
	gomock.InOrder(
		inner.EXPECT().Read(gomock.Any(), unit, models.SensorTemperature).
			Return(models.SensorReading{}, ErrTransient),
		inner.EXPECT().Read(gomock.Any(), unit, models.SensorTemperature).
			Return(want, nil),
	)

	p := WithRetry(inner, 3, time.Millisecond, zap.NewNop())

	got, err := p.Read(context.Background(), unit, models.SensorTemperature)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	unit := testUnit()

	inner := NewMockProvider(ctrl)
	inner.EXPECT().Read(gomock.Any(), unit, models.SensorGas).
		Return(models.SensorReading{}, ErrTransient).
		Times(3)

	p := WithRetry(inner, 3, time.Millisecond, zap.NewNop())

	_, err := p.Read(context.Background(), unit, models.SensorGas)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	unit := testUnit()

	inner := NewMockProvider(ctrl)
	inner.EXPECT().Read(gomock.Any(), unit, models.SensorThermal).
		Return(models.SensorReading{}, ErrSensorDisabled).
		Times(1)

	p := WithRetry(inner, 3, time.Millisecond, zap.NewNop())

	_, err := p.Read(context.Background(), unit, models.SensorThermal)
	assert.ErrorIs(t, err, ErrSensorDisabled)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	unit := testUnit()

	inner := NewMockProvider(ctrl)
	inner.EXPECT().Read(gomock.Any(), unit, models.SensorThermal).
		Return(models.SensorReading{}, ErrTransient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := WithRetry(inner, 3, time.Hour, zap.NewNop())

	_, err := p.Read(ctx, unit, models.SensorThermal)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedScalarAndTensorReads(t *testing.T) {
	unit := testUnit()

	sim := NewSimulated(map[models.SensorKind][]int{
		models.SensorThermal:  {24, 32, 1},
		models.SensorAcoustic: {128, 128, 1},
	}, 1)

	temp, err := sim.Read(context.Background(), unit, models.SensorTemperature)
	require.NoError(t, err)
	assert.True(t, temp.Valid)
	assert.True(t, temp.IsScalar())
	// Simulated fridges sit inside their configured range.
	assert.InDelta(t, 4.5, temp.Value, 1.0)

	thermal, err := sim.Read(context.Background(), unit, models.SensorThermal)
	require.NoError(t, err)
	assert.Equal(t, []int{24, 32, 1}, thermal.Shape)
	assert.Len(t, thermal.Tensor, 24*32)
}

func TestSimulatedFlagsImplausibleScalar(t *testing.T) {
	// A disconnected simulated probe produces a physically impossible
	// value; the reading must come back flagged invalid.
	orig := nominalScalars[models.SensorTemperature]
	nominalScalars[models.SensorTemperature] = nominalScalar{value: -327.68, jitter: 0}

	defer func() { nominalScalars[models.SensorTemperature] = orig }()

	unit := testUnit()
	unit.Kind = models.KindCentrifuge // no per-kind temperature override

	sim := NewSimulated(nil, 1)

	reading, err := sim.Read(context.Background(), unit, models.SensorTemperature)
	require.NoError(t, err)
	assert.False(t, reading.Valid)
	assert.InDelta(t, -327.68, reading.Value, 1e-9)
}

func TestSimulatedRejectsDisabledSensor(t *testing.T) {
	unit := testUnit()

	sim := NewSimulated(nil, 1)

	_, err := sim.Read(context.Background(), unit, models.SensorVibration)
	assert.ErrorIs(t, err, ErrSensorDisabled)
}

func TestSNMPProviderRejectsTensorSensors(t *testing.T) {
	p := NewSNMPProvider()

	_, err := p.Read(context.Background(), testUnit(), models.SensorThermal)
	assert.ErrorIs(t, err, ErrUnsupportedSensor)
}

func TestSNMPProviderRequiresAddress(t *testing.T) {
	p := NewSNMPProvider()

	_, err := p.Read(context.Background(), testUnit(), models.SensorTemperature)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAddress))
}
