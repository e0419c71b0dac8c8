// Package hardware exposes sensor state as a read capability. The
// monitoring loop never knows whether it is talking to real sensor
// gateways or the simulated provider; the implementation is chosen once
// at startup.

//go:generate mockgen -destination=mock_hardware.go -package=hardware github.com/premonitor/premonitor/pkg/hardware Provider

package hardware

import (
	"context"

	"github.com/premonitor/premonitor/pkg/models"
)

// Provider reads one sensor of one equipment unit. Implementations must
// return values pre-normalized to what the inference engine expects and
// must distinguish transient failures (ErrTransient) from out-of-range
// values (reading with Valid=false).
type Provider interface {
	Read(ctx context.Context, unit *models.EquipmentUnit, sensor models.SensorKind) (models.SensorReading, error)
}
