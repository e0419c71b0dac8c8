package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premonitor/premonitor/pkg/models"
)

func validFridge(id string) models.EquipmentUnit {
	return models.EquipmentUnit{
		ID:     id,
		Kind:   models.KindFridge,
		NodeID: "node-1",
		Sensors: map[models.SensorKind]models.SensorConfig{
			models.SensorThermal:  {Enabled: true},
			models.SensorAcoustic: {Enabled: true},
			models.SensorGas:      {Enabled: true},
		},
		AlertChannels: []models.ChannelKind{models.ChannelWebhook, models.ChannelEmail},
		Critical:      true,
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.EquipmentUnit)
		wantErr error
	}{
		{
			name:   "valid fridge",
			mutate: func(*models.EquipmentUnit) {},
		},
		{
			name:    "unknown kind",
			mutate:  func(u *models.EquipmentUnit) { u.Kind = "toaster" },
			wantErr: ErrUnknownKind,
		},
		{
			name: "required sensor disabled",
			mutate: func(u *models.EquipmentUnit) {
				u.Sensors[models.SensorAcoustic] = models.SensorConfig{Enabled: false}
			},
			wantErr: ErrMissingSensor,
		},
		{
			name: "required sensor absent",
			mutate: func(u *models.EquipmentUnit) {
				delete(u.Sensors, models.SensorThermal)
			},
			wantErr: ErrMissingSensor,
		},
		{
			name: "sensor not valid for kind",
			mutate: func(u *models.EquipmentUnit) {
				u.Sensors[models.SensorVibration] = models.SensorConfig{Enabled: true}
			},
			wantErr: ErrUnknownSensor,
		},
		{
			name: "unknown alert channel",
			mutate: func(u *models.EquipmentUnit) {
				u.AlertChannels = append(u.AlertChannels, "pager")
			},
			wantErr: ErrUnknownChannel,
		},
		{
			name:    "empty id",
			mutate:  func(u *models.EquipmentUnit) { u.ID = "" },
			wantErr: ErrEmptyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := validFridge("fridge-1")
			tt.mutate(&unit)

			_, err := New([]models.EquipmentUnit{unit})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDuplicateID(t *testing.T) {
	_, err := New([]models.EquipmentUnit{validFridge("fridge-1"), validFridge("fridge-1")})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestForNodePreservesOrder(t *testing.T) {
	a := validFridge("fridge-a")
	b := validFridge("fridge-b")
	other := validFridge("fridge-other")
	other.NodeID = "node-2"

	r, err := New([]models.EquipmentUnit{a, other, b})
	require.NoError(t, err)

	units := r.ForNode("node-1")
	require.Len(t, units, 2)
	assert.Equal(t, "fridge-a", units[0].ID)
	assert.Equal(t, "fridge-b", units[1].ID)
}

func TestGet(t *testing.T) {
	r, err := New([]models.EquipmentUnit{validFridge("fridge-1")})
	require.NoError(t, err)

	unit, err := r.Get("fridge-1")
	require.NoError(t, err)
	assert.Equal(t, models.KindFridge, unit.Kind)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownEquipment)
}

func TestProfilesCoverEveryKind(t *testing.T) {
	for _, kind := range KnownKinds() {
		profile, err := Profile(kind)
		require.NoError(t, err, "kind %s", kind)
		assert.NotEmpty(t, profile.ModelSignals, "kind %s has no model thresholds", kind)
	}
}

func TestCentrifugeHasNoFusionRule(t *testing.T) {
	profile, err := Profile(models.KindCentrifuge)
	require.NoError(t, err)
	assert.Zero(t, profile.Fusion)
}
