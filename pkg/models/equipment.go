// Package models pkg/models/equipment.go
package models

// EquipmentKind identifies a class of monitored equipment. The set is
// closed; registry loading rejects anything else.
type EquipmentKind string

const (
	KindFridge          EquipmentKind = "fridge"
	KindFreezerUltraLow EquipmentKind = "freezer_ultra_low"
	KindIncubator       EquipmentKind = "incubator"
	KindCentrifuge      EquipmentKind = "centrifuge"
	KindAutoclave       EquipmentKind = "autoclave"
	KindOven            EquipmentKind = "oven"
	KindWaterBath       EquipmentKind = "water_bath"
	KindVacuumPump      EquipmentKind = "vacuum_pump"
	KindFumeHood        EquipmentKind = "fume_hood"
	KindShaker          EquipmentKind = "shaker"
)

// SensorKind identifies a sensor attached to an equipment unit.
type SensorKind string

const (
	SensorThermal     SensorKind = "thermal"
	SensorAcoustic    SensorKind = "acoustic"
	SensorTemperature SensorKind = "temperature"
	SensorGas         SensorKind = "gas"
	SensorVibration   SensorKind = "vibration"
	SensorCurrent     SensorKind = "current"
	SensorCO2         SensorKind = "co2"
	SensorHumidity    SensorKind = "humidity"
	SensorPressure    SensorKind = "pressure"
	SensorAirflow     SensorKind = "airflow"
)

// ChannelKind identifies an alert delivery channel.
type ChannelKind string

const (
	ChannelWebhook ChannelKind = "webhook"
	ChannelEmail   ChannelKind = "email"
	ChannelSMS     ChannelKind = "sms"
)

// ModelKind identifies a pretrained model artifact.
type ModelKind string

const (
	ModelThermalCNN  ModelKind = "thermal_cnn"
	ModelAcousticCNN ModelKind = "acoustic_cnn"
	ModelSequenceAE  ModelKind = "sequence_ae"
)

// SensorConfig describes one sensor attached to a unit. Address holds
// driver-specific addressing fields (I2C address, SNMP OID, device path)
// that only the hardware provider interprets.
type SensorConfig struct {
	Enabled bool              `json:"enabled"`
	Address map[string]string `json:"address,omitempty"`
}

// EquipmentUnit is one physically monitored device. Units are immutable
// for the lifetime of a run.
type EquipmentUnit struct {
	ID            string                      `json:"id"`
	Kind          EquipmentKind               `json:"kind"`
	NodeID        string                      `json:"node_id"`
	Name          string                      `json:"name,omitempty"`
	Location      string                      `json:"location,omitempty"`
	Sensors       map[SensorKind]SensorConfig `json:"sensors"`
	AlertChannels []ChannelKind               `json:"alert_channels"`
	Critical      bool                        `json:"critical"`
}

// SensorEnabled reports whether the unit has the given sensor configured
// and enabled.
func (u *EquipmentUnit) SensorEnabled(kind SensorKind) bool {
	cfg, ok := u.Sensors[kind]
	return ok && cfg.Enabled
}

// HasChannel reports whether the unit's alert channel list includes kind.
func (u *EquipmentUnit) HasChannel(kind ChannelKind) bool {
	for _, c := range u.AlertChannels {
		if c == kind {
			return true
		}
	}

	return false
}
