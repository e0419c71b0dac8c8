package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premonitor/premonitor/pkg/models"
)

func step(v float32) []float32 {
	return []float32{v, v, v, v, v, v}
}

func TestStoreNeverExceedsCapacity(t *testing.T) {
	store := NewStore(5)

	for i := 0; i < 500; i++ {
		require.NoError(t, store.Append("fridge-1", step(float32(i))))
		assert.LessOrEqual(t, store.Len("fridge-1"), 5)
	}

	_, shape := store.Window("fridge-1")
	assert.Equal(t, []int{5, FeatureCount}, shape)
}

func TestStoreFIFOEviction(t *testing.T) {
	store := NewStore(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append("u", step(float32(i))))
	}

	flat, shape := store.Window("u")
	require.Equal(t, []int{3, FeatureCount}, shape)

	// Oldest first: steps 2, 3, 4 survive.
	assert.Equal(t, float32(2), flat[0])
	assert.Equal(t, float32(3), flat[FeatureCount])
	assert.Equal(t, float32(4), flat[2*FeatureCount])
}

func TestFullOnlyAtCapacity(t *testing.T) {
	store := NewStore(3)

	assert.False(t, store.Full("u"))

	for i := 0; i < 2; i++ {
		require.NoError(t, store.Append("u", step(0)))
		assert.False(t, store.Full("u"))
	}

	require.NoError(t, store.Append("u", step(0)))
	assert.True(t, store.Full("u"))

	// Stays full under further appends.
	require.NoError(t, store.Append("u", step(0)))
	assert.True(t, store.Full("u"))
}

func TestWindowsAreIndependent(t *testing.T) {
	store := NewStore(2)

	require.NoError(t, store.Append("a", step(1)))
	require.NoError(t, store.Append("a", step(2)))
	require.NoError(t, store.Append("b", step(9)))

	assert.True(t, store.Full("a"))
	assert.False(t, store.Full("b"))
}

func TestAppendRejectsWrongLength(t *testing.T) {
	store := NewStore(2)
	assert.Error(t, store.Append("u", []float32{1, 2}))
}

func TestBuildFeatureVector(t *testing.T) {
	readings := map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: {Sensor: models.SensorTemperature, Value: 4.5, Valid: true},
		models.SensorGas:         {Sensor: models.SensorGas, Value: 120, Valid: true},
		models.SensorAcoustic:    {Sensor: models.SensorAcoustic, Tensor: []float32{3, 4}, Valid: true},
		models.SensorThermal:     {Sensor: models.SensorThermal, Tensor: []float32{1, 2, 3}, Valid: true},
	}

	vec := BuildFeatureVector(readings)
	require.Len(t, vec, FeatureCount)

	assert.Equal(t, float32(4.5), vec[0])
	assert.Equal(t, float32(120), vec[1])
	assert.True(t, math.IsNaN(float64(vec[2])), "missing vibration should be NaN")
	assert.True(t, math.IsNaN(float64(vec[3])), "missing current should be NaN")
	assert.InDelta(t, math.Sqrt(12.5), float64(vec[4]), 1e-5) // rms of {3,4}
	assert.InDelta(t, 2.0, float64(vec[5]), 1e-6)             // mean of {1,2,3}
}

func TestBuildFeatureVectorIgnoresInvalidReadings(t *testing.T) {
	readings := map[models.SensorKind]models.SensorReading{
		models.SensorTemperature: {Sensor: models.SensorTemperature, Value: 99, Valid: false},
	}

	vec := BuildFeatureVector(readings)
	assert.True(t, math.IsNaN(float64(vec[0])))
}

func TestNormalizeZeroesNaNAndCenters(t *testing.T) {
	window := []float32{1, 2, 3, float32(math.NaN())}

	out := Normalize(window)
	require.Len(t, out, 4)

	var sum float64
	for _, v := range out {
		require.False(t, math.IsNaN(float64(v)))
		sum += float64(v)
	}

	assert.InDelta(t, 0, sum, 1e-5, "normalized window should be centered")

	// Input untouched.
	assert.True(t, math.IsNaN(float64(window[3])))
}

func TestNormalizeConstantWindow(t *testing.T) {
	out := Normalize([]float32{2, 2, 2})
	for _, v := range out {
		assert.InDelta(t, 0, float64(v), 1e-5)
	}
}
