package timeseries

import (
	"math"

	"github.com/premonitor/premonitor/pkg/models"
)

// BuildFeatureVector derives one timestep from a cycle's sensor readings.
// Missing or invalid sensors leave NaN in their slot; Normalize maps NaN
// to zero before the window reaches the model. Scalar slots take the raw
// value, the acoustic slot takes the RMS of the audio tensor, and the
// thermal slot the mean of the image tensor.
func BuildFeatureVector(readings map[models.SensorKind]models.SensorReading) []float32 {
	nan := float32(math.NaN())
	vec := []float32{nan, nan, nan, nan, nan, nan}

	scalars := []struct {
		sensor models.SensorKind
		slot   int
	}{
		{models.SensorTemperature, 0},
		{models.SensorGas, 1},
		{models.SensorVibration, 2},
		{models.SensorCurrent, 3},
	}

	for _, sc := range scalars {
		if r, ok := readings[sc.sensor]; ok && r.Valid && r.IsScalar() {
			vec[sc.slot] = float32(r.Value)
		}
	}

	if r, ok := readings[models.SensorAcoustic]; ok && r.Valid && len(r.Tensor) > 0 {
		vec[4] = rms(r.Tensor)
	}

	if r, ok := readings[models.SensorThermal]; ok && r.Valid && len(r.Tensor) > 0 {
		vec[5] = mean(r.Tensor)
	}

	return vec
}

// Normalize z-scores a flattened window in place after zeroing NaN slots,
// matching the preprocessing the sequence model was trained with. It
// returns a copy; the stored window is untouched.
func Normalize(window []float32) []float32 {
	out := make([]float32, len(window))

	var sum float64

	for i, v := range window {
		if math.IsNaN(float64(v)) {
			v = 0
		}

		out[i] = v
		sum += float64(v)
	}

	m := sum / float64(len(out))

	var variance float64

	for _, v := range out {
		d := float64(v) - m
		variance += d * d
	}

	std := math.Sqrt(variance / float64(len(out)))

	const epsilon = 1e-7
	for i := range out {
		out[i] = float32((float64(out[i]) - m) / (std + epsilon))
	}

	return out
}

func rms(values []float32) float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}

	return float32(math.Sqrt(sum / float64(len(values))))
}

func mean(values []float32) float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}

	return float32(sum / float64(len(values)))
}
