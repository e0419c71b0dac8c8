package alerts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

type cooldownKey struct {
	equipmentID string
	signal      string
}

// Dispatcher fans a verdict out to the unit's configured channels. Each
// (unit, signal) pair is rate-limited by one shared cooldown; a signal
// that keeps firing every cycle alerts once per cooldown window. Signals
// from the raw-sensor safety path bypass the cooldown entirely.
type Dispatcher struct {
	channels []Channel
	cooldown time.Duration
	lastSent map[cooldownKey]time.Time
	mu       sync.Mutex
	nowFn    func() time.Time
	logger   *zap.Logger
}

func NewDispatcher(cooldown time.Duration, logger *zap.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		cooldown: cooldown,
		lastSent: make(map[cooldownKey]time.Time),
		nowFn:    time.Now,
		logger:   logger,
	}
}

// Dispatch delivers one alert per triggered signal and reports what
// happened to each. A send failure on one channel never blocks the
// others.
func (d *Dispatcher) Dispatch(ctx context.Context, unit *models.EquipmentUnit, verdict *models.AnomalyVerdict) []DispatchResult {
	if verdict.Empty() {
		return nil
	}

	targets := d.targets(unit, verdict.Severity)

	var results []DispatchResult

	for _, signal := range verdict.Signals {
		if !signal.RawSafety {
			if d.coolingDown(unit.ID, signal.Name) {
				d.logger.Debug("alert suppressed by cooldown",
					zap.String("equipment_id", unit.ID),
					zap.String("signal", signal.Name))

				results = append(results, DispatchResult{
					Signal: signal.Name,
					Status: StatusSuppressed,
				})

				continue
			}

			// Only an attempted delivery starts the window; a verdict
			// that reaches zero channels must not suppress a later
			// deliverable one.
			if len(targets) > 0 {
				d.stamp(unit.ID, signal.Name)
			}
		}

		alert := &Alert{
			EquipmentID: unit.ID,
			Kind:        unit.Kind,
			Name:        unit.Name,
			Location:    unit.Location,
			NodeID:      unit.NodeID,
			Severity:    verdict.Severity,
			Signal:      signal,
			Timestamp:   verdict.Timestamp,
		}

		results = append(results, d.send(ctx, unit, alert, targets)...)
	}

	return results
}

// targets filters the configured channels down to the ones this unit and
// severity can actually reach. SMS is reserved for critical alerts.
func (d *Dispatcher) targets(unit *models.EquipmentUnit, severity models.Severity) []Channel {
	var out []Channel

	for _, channel := range d.channels {
		if !unit.HasChannel(channel.Kind()) || !channel.Enabled() {
			continue
		}

		if channel.Kind() == models.ChannelSMS && severity != models.SeverityCritical {
			continue
		}

		out = append(out, channel)
	}

	return out
}

func (d *Dispatcher) send(ctx context.Context, unit *models.EquipmentUnit, alert *Alert, targets []Channel) []DispatchResult {
	var results []DispatchResult

	for _, channel := range targets {
		result := DispatchResult{
			Signal:  alert.Signal.Name,
			Channel: channel.Kind(),
			Status:  StatusSent,
		}

		if err := channel.Send(ctx, alert); err != nil {
			d.logger.Error("alert delivery failed",
				zap.String("equipment_id", unit.ID),
				zap.String("signal", alert.Signal.Name),
				zap.String("channel", string(channel.Kind())),
				zap.Error(err))

			result.Status = StatusFailed
			result.Err = err
		} else {
			d.logger.Info("alert sent",
				zap.String("equipment_id", unit.ID),
				zap.String("signal", alert.Signal.Name),
				zap.String("channel", string(channel.Kind())),
				zap.String("severity", string(alert.Severity)))
		}

		results = append(results, result)
	}

	return results
}

func (d *Dispatcher) coolingDown(equipmentID, signal string) bool {
	if d.cooldown <= 0 {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	last, ok := d.lastSent[cooldownKey{equipmentID: equipmentID, signal: signal}]

	return ok && d.nowFn().Sub(last) < d.cooldown
}

// stamp starts the cooldown window. Stamping happens at dispatch time,
// not delivery time, so a failing channel cannot turn one anomaly into
// an alert storm.
func (d *Dispatcher) stamp(equipmentID, signal string) {
	if d.cooldown <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastSent[cooldownKey{equipmentID: equipmentID, signal: signal}] = d.nowFn()
}
