// Package registry holds the static catalog of monitored equipment. The
// catalog is validated exhaustively at load time and is immutable for the
// lifetime of a run; every configuration problem is fatal at startup so
// the monitoring loop never has to second-guess a unit.
package registry

import (
	"fmt"

	"github.com/premonitor/premonitor/pkg/models"
)

// Registry is the validated equipment catalog for one node. Units keep
// their configuration order; the orchestrator processes them in that
// order every cycle.
type Registry struct {
	units []models.EquipmentUnit
	byID  map[string]*models.EquipmentUnit
}

// New validates every entry against the kind table and returns the
// catalog. Entries for other nodes are validated too but filtered out by
// ForNode.
func New(entries []models.EquipmentUnit) (*Registry, error) {
	r := &Registry{
		units: make([]models.EquipmentUnit, 0, len(entries)),
		byID:  make(map[string]*models.EquipmentUnit, len(entries)),
	}

	for i := range entries {
		unit := entries[i]

		if err := validateUnit(&unit); err != nil {
			return nil, fmt.Errorf("equipment %q: %w", unit.ID, err)
		}

		if _, exists := r.byID[unit.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, unit.ID)
		}

		r.units = append(r.units, unit)
		r.byID[unit.ID] = &r.units[len(r.units)-1]
	}

	return r, nil
}

func validateUnit(unit *models.EquipmentUnit) error {
	if unit.ID == "" {
		return ErrEmptyID
	}

	spec, ok := kindSpecs[unit.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, unit.Kind)
	}

	allowed := make(map[models.SensorKind]struct{}, len(spec.required)+len(spec.optional))
	for _, s := range spec.required {
		allowed[s] = struct{}{}
	}

	for _, s := range spec.optional {
		allowed[s] = struct{}{}
	}

	for sensorKind := range unit.Sensors {
		if _, ok := allowed[sensorKind]; !ok {
			return fmt.Errorf("%w: %s not valid for kind %s", ErrUnknownSensor, sensorKind, unit.Kind)
		}
	}

	for _, required := range spec.required {
		if !unit.SensorEnabled(required) {
			return fmt.Errorf("%w: %s", ErrMissingSensor, required)
		}
	}

	for _, ch := range unit.AlertChannels {
		switch ch {
		case models.ChannelWebhook, models.ChannelEmail, models.ChannelSMS:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
		}
	}

	return nil
}

// Units returns every registered unit in configuration order.
func (r *Registry) Units() []models.EquipmentUnit {
	return r.units
}

// ForNode returns the units owned by nodeID, in configuration order.
func (r *Registry) ForNode(nodeID string) []models.EquipmentUnit {
	var out []models.EquipmentUnit

	for _, u := range r.units {
		if u.NodeID == nodeID {
			out = append(out, u)
		}
	}

	return out
}

// Get looks up a unit by id.
func (r *Registry) Get(id string) (*models.EquipmentUnit, error) {
	unit, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEquipment, id)
	}

	return unit, nil
}

// Profile returns the threshold profile for an equipment kind.
func Profile(kind models.EquipmentKind) (models.ThresholdProfile, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return models.ThresholdProfile{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return spec.profile, nil
}

// Models returns the model kinds that score equipment of the given kind.
func Models(kind models.EquipmentKind) []models.ModelKind {
	return kindSpecs[kind].models
}
