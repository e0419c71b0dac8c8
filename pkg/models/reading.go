package models

import "time"

// SensorReading is one normalized sensor observation. Scalar sensors set
// Value; tensor sensors (thermal imagery, featurized audio) set Tensor and
// Shape. Valid is false when the provider could read the sensor but the
// value is out of the sensor's physical range.
type SensorReading struct {
	EquipmentID string     `json:"equipment_id"`
	Sensor      SensorKind `json:"sensor"`
	Value       float64    `json:"value,omitempty"`
	Tensor      []float32  `json:"-"`
	Shape       []int      `json:"shape,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	Valid       bool       `json:"valid"`
}

// IsScalar reports whether the reading carries a single value rather than
// a tensor.
func (r *SensorReading) IsScalar() bool {
	return r.Tensor == nil
}
