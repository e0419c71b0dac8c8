package hardware

import "github.com/premonitor/premonitor/pkg/models"

// physicalRanges bound what each scalar sensor can physically report. A
// value outside its range is a sensor fault, not an equipment anomaly, so
// providers deliver it with Valid=false and the decision layer ignores
// it.
var physicalRanges = map[models.SensorKind]struct{ min, max float64 }{
	models.SensorTemperature: {-120, 400},
	models.SensorGas:         {0, 10000},
	models.SensorVibration:   {0, 50},
	models.SensorCurrent:     {0, 100},
	models.SensorCO2:         {0, 100},
	models.SensorHumidity:    {0, 100},
	models.SensorPressure:    {0, 100},
	models.SensorAirflow:     {0, 2000},
}

// PlausibleScalar reports whether value is physically possible for the
// sensor. Sensors without a configured range are always plausible.
func PlausibleScalar(sensor models.SensorKind, value float64) bool {
	r, ok := physicalRanges[sensor]
	if !ok {
		return true
	}

	return value >= r.min && value <= r.max
}
