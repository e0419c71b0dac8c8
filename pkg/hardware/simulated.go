package hardware

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/premonitor/premonitor/pkg/models"
)

type nominalScalar struct {
	value  float64
	jitter float64
}

// nominal scalar values per sensor kind, jittered per read. Temperature
// is overridden per equipment kind so simulated fridges sit in their
// configured range instead of tripping alerts on every cycle.
var nominalScalars = map[models.SensorKind]nominalScalar{
	models.SensorTemperature: {21.0, 0.4},
	models.SensorGas:         {120.0, 20.0},
	models.SensorVibration:   {0.05, 0.02},
	models.SensorCurrent:     {1.2, 0.2},
	models.SensorCO2:         {5.0, 0.1},
	models.SensorHumidity:    {90.0, 1.5},
	models.SensorPressure:    {17.0, 0.5},
	models.SensorAirflow:     {150.0, 10.0},
}

var nominalTemperatures = map[models.EquipmentKind]float64{
	models.KindFridge:          4.5,
	models.KindFreezerUltraLow: -80.0,
	models.KindIncubator:       37.0,
	models.KindOven:            180.0,
	models.KindWaterBath:       37.5,
}

// Simulated is the sensor provider used on benches without wired
// hardware. Tensor shapes are taken from the loaded artifacts so the
// produced imagery and audio features match what the models expect.
type Simulated struct {
	shapes map[models.SensorKind][]int
	mu     sync.Mutex
	rng    *rand.Rand
	nowFn  func() time.Time
}

// NewSimulated builds a simulated provider. shapes maps tensor sensors to
// the input shapes of their models (batch dimension excluded).
func NewSimulated(shapes map[models.SensorKind][]int, seed int64) *Simulated {
	return &Simulated{
		shapes: shapes,
		rng:    rand.New(rand.NewSource(seed)),
		nowFn:  time.Now,
	}
}

func (s *Simulated) Read(_ context.Context, unit *models.EquipmentUnit, sensor models.SensorKind) (models.SensorReading, error) {
	if !unit.SensorEnabled(sensor) {
		return models.SensorReading{}, fmt.Errorf("%w: %s on %s", ErrSensorDisabled, sensor, unit.ID)
	}

	reading := models.SensorReading{
		EquipmentID: unit.ID,
		Sensor:      sensor,
		Timestamp:   s.nowFn(),
		Valid:       true,
	}

	switch sensor {
	case models.SensorThermal, models.SensorAcoustic:
		shape, ok := s.shapes[sensor]
		if !ok {
			return models.SensorReading{}, fmt.Errorf("%w: no tensor shape for %s", ErrUnsupportedSensor, sensor)
		}

		n := 1
		for _, d := range shape {
			n *= d
		}

		tensor := make([]float32, n)

		s.mu.Lock()
		for i := range tensor {
			tensor[i] = s.rng.Float32()
		}
		s.mu.Unlock()

		reading.Tensor = tensor
		reading.Shape = shape

	default:
		nominal, ok := nominalScalars[sensor]
		if !ok {
			return models.SensorReading{}, fmt.Errorf("%w: %s", ErrUnsupportedSensor, sensor)
		}

		value := nominal.value
		if sensor == models.SensorTemperature {
			if t, ok := nominalTemperatures[unit.Kind]; ok {
				value = t
			}
		}

		s.mu.Lock()
		reading.Value = value + (s.rng.Float64()*2-1)*nominal.jitter
		s.mu.Unlock()

		// Same plausibility gate as the wired providers, so a test
		// rig producing a physically impossible value is flagged
		// instead of evaluated.
		reading.Valid = PlausibleScalar(sensor, reading.Value)
	}

	return reading, nil
}
