// Package registry pkg/registry/kinds.go
package registry

import "github.com/premonitor/premonitor/pkg/models"

// kindSpec describes one equipment kind: which sensors it must and may
// carry, which models score it, and its default threshold profile.
type kindSpec struct {
	required []models.SensorKind
	optional []models.SensorKind
	models   []models.ModelKind
	profile  models.ThresholdProfile
}

func gte(v float64) models.Threshold {
	return models.Threshold{Comparison: models.CompareGTE, Value: v}
}

func lte(v float64) models.Threshold {
	return models.Threshold{Comparison: models.CompareLTE, Value: v}
}

func outside(minVal, maxVal float64) models.Threshold {
	return models.Threshold{Comparison: models.CompareOutside, Min: minVal, Max: maxVal}
}

func sensor(kind models.SensorKind, t models.Threshold) models.SensorThreshold {
	return models.SensorThreshold{Sensor: kind, Threshold: t}
}

// hardTemperatureLimitC is the fire-risk ceiling applied to every kind
// with a temperature sensor, independent of its operating range.
const hardTemperatureLimitC = 75.0

// kindSpecs is the closed equipment kind table. Threshold values come
// from the fleet's commissioning data; more sensitive confidence values
// mean the equipment is either safety-critical at speed (centrifuge) or
// runs hot enough that thermal imagery alone is noisy (autoclave, oven).
var kindSpecs = map[models.EquipmentKind]kindSpec{
	models.KindFridge: {
		required: []models.SensorKind{models.SensorThermal, models.SensorAcoustic},
		optional: []models.SensorKind{models.SensorGas, models.SensorTemperature},
		models:   []models.ModelKind{models.ModelThermalCNN, models.ModelAcousticCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalThermalConfidence:      gte(0.85),
				models.SignalAcousticConfidence:     gte(0.85),
				models.SignalSequenceReconstruction: gte(0.045),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"gas-level":            sensor(models.SensorGas, gte(300)),
				"temperature-range":    sensor(models.SensorTemperature, outside(2.0, 8.0)),
				"temperature-critical": sensor(models.SensorTemperature, gte(hardTemperatureLimitC)),
			},
			Fusion: 0.60,
		},
	},
	models.KindFreezerUltraLow: {
		required: []models.SensorKind{models.SensorThermal, models.SensorAcoustic, models.SensorTemperature},
		optional: []models.SensorKind{models.SensorGas},
		models:   []models.ModelKind{models.ModelThermalCNN, models.ModelAcousticCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalThermalConfidence:      gte(0.85),
				models.SignalAcousticConfidence:     gte(0.80),
				models.SignalSequenceReconstruction: gte(0.040),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"gas-level":            sensor(models.SensorGas, gte(300)),
				"temperature-range":    sensor(models.SensorTemperature, outside(-82.0, -78.0)),
				"temperature-critical": sensor(models.SensorTemperature, gte(hardTemperatureLimitC)),
			},
			Fusion: 0.55,
		},
	},
	models.KindIncubator: {
		required: []models.SensorKind{models.SensorThermal, models.SensorTemperature},
		optional: []models.SensorKind{models.SensorCO2, models.SensorHumidity},
		models:   []models.ModelKind{models.ModelThermalCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalThermalConfidence:      gte(0.90),
				models.SignalSequenceReconstruction: gte(0.040),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"temperature-range":    sensor(models.SensorTemperature, outside(36.5, 37.5)),
				"temperature-critical": sensor(models.SensorTemperature, gte(hardTemperatureLimitC)),
				"co2-range":            sensor(models.SensorCO2, outside(4.5, 5.5)),
				"humidity-range":       sensor(models.SensorHumidity, outside(85, 95)),
			},
			Fusion: 0.60,
		},
	},
	models.KindCentrifuge: {
		required: []models.SensorKind{models.SensorAcoustic},
		optional: []models.SensorKind{models.SensorVibration, models.SensorCurrent},
		models:   []models.ModelKind{models.ModelAcousticCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalAcousticConfidence:     gte(0.75),
				models.SignalSequenceReconstruction: gte(0.050),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"vibration-level": sensor(models.SensorVibration, gte(0.5)),
				"current-draw":    sensor(models.SensorCurrent, gte(5.0)),
			},
		},
	},
	models.KindAutoclave: {
		required: []models.SensorKind{models.SensorThermal, models.SensorAcoustic},
		optional: []models.SensorKind{models.SensorPressure},
		models:   []models.ModelKind{models.ModelThermalCNN, models.ModelAcousticCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalThermalConfidence:      gte(0.95),
				models.SignalAcousticConfidence:     gte(0.80),
				models.SignalSequenceReconstruction: gte(0.055),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"pressure-range": sensor(models.SensorPressure, outside(15, 20)),
			},
			Fusion: 0.65,
		},
	},
	models.KindOven: {
		required: []models.SensorKind{models.SensorThermal},
		optional: []models.SensorKind{models.SensorTemperature},
		models:   []models.ModelKind{models.ModelThermalCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalThermalConfidence:      gte(0.92),
				models.SignalSequenceReconstruction: gte(0.045),
			},
			SensorSignals: map[string]models.SensorThreshold{
				// Ovens run hot on purpose; only the absolute safety
				// limit applies.
				"temperature-critical": sensor(models.SensorTemperature, gte(250.0)),
			},
		},
	},
	models.KindWaterBath: {
		required: []models.SensorKind{models.SensorThermal, models.SensorTemperature},
		models:   []models.ModelKind{models.ModelThermalCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalThermalConfidence:      gte(0.88),
				models.SignalSequenceReconstruction: gte(0.040),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"temperature-range":    sensor(models.SensorTemperature, outside(35.0, 40.0)),
				"temperature-critical": sensor(models.SensorTemperature, gte(hardTemperatureLimitC)),
			},
		},
	},
	models.KindVacuumPump: {
		required: []models.SensorKind{models.SensorAcoustic},
		optional: []models.SensorKind{models.SensorVibration, models.SensorPressure},
		models:   []models.ModelKind{models.ModelAcousticCNN, models.ModelSequenceAE},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalAcousticConfidence:     gte(0.78),
				models.SignalSequenceReconstruction: gte(0.048),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"pressure-min": sensor(models.SensorPressure, lte(0.1)),
			},
		},
	},
	models.KindFumeHood: {
		required: []models.SensorKind{models.SensorAcoustic},
		optional: []models.SensorKind{models.SensorAirflow, models.SensorGas},
		models:   []models.ModelKind{models.ModelAcousticCNN},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalAcousticConfidence: gte(0.82),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"airflow-min": sensor(models.SensorAirflow, lte(100)),
				"gas-level":   sensor(models.SensorGas, gte(200)),
			},
		},
	},
	models.KindShaker: {
		required: []models.SensorKind{models.SensorAcoustic},
		optional: []models.SensorKind{models.SensorVibration},
		models:   []models.ModelKind{models.ModelAcousticCNN},
		profile: models.ThresholdProfile{
			ModelSignals: map[string]models.Threshold{
				models.SignalAcousticConfidence: gte(0.80),
			},
			SensorSignals: map[string]models.SensorThreshold{
				"vibration-level": sensor(models.SensorVibration, gte(0.3)),
			},
		},
	},
}

// KnownKinds returns the closed set of equipment kinds.
func KnownKinds() []models.EquipmentKind {
	kinds := make([]models.EquipmentKind, 0, len(kindSpecs))
	for k := range kindSpecs {
		kinds = append(kinds, k)
	}

	return kinds
}
