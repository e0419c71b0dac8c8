// Package monitor runs the cycle loop that ties sensors, models,
// decisions and alerting together. One monitor owns one node's units and
// processes them sequentially; per-unit failures are isolated so a dead
// sensor on one fridge never blinds the rest of the fleet.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/alerts"
	"github.com/premonitor/premonitor/pkg/decision"
	"github.com/premonitor/premonitor/pkg/hardware"
	"github.com/premonitor/premonitor/pkg/inference"
	"github.com/premonitor/premonitor/pkg/metrics"
	"github.com/premonitor/premonitor/pkg/models"
	"github.com/premonitor/premonitor/pkg/registry"
	"github.com/premonitor/premonitor/pkg/resource"
	"github.com/premonitor/premonitor/pkg/timeseries"
)

// State is the monitor's current phase, exposed for status introspection.
type State string

const (
	StateIdle        State = "idle"
	StateReading     State = "reading"
	StateScoring     State = "scoring"
	StateDeciding    State = "deciding"
	StateDispatching State = "dispatching"
)

// Deps are the monitor's collaborators. All are required except Governor
// and Metrics, which degrade to no-ops when nil.
type Deps struct {
	Registry   *registry.Registry
	Provider   hardware.Provider
	Inference  *inference.Engine
	Windows    *timeseries.Store
	Decision   *decision.Engine
	Dispatcher *alerts.Dispatcher
	Governor   *resource.Governor
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Monitor is the cycle orchestrator for one node.
type Monitor struct {
	nodeID   string
	interval time.Duration
	units    []models.EquipmentUnit

	provider   hardware.Provider
	inference  *inference.Engine
	windows    *timeseries.Store
	decision   *decision.Engine
	dispatcher *alerts.Dispatcher
	governor   *resource.Governor
	metrics    *metrics.Metrics
	logger     *zap.Logger

	status *statusBoard
	nowFn  func() time.Time
}

func New(nodeID string, interval time.Duration, deps Deps) *Monitor {
	units := deps.Registry.ForNode(nodeID)

	return &Monitor{
		nodeID:     nodeID,
		interval:   interval,
		units:      units,
		provider:   deps.Provider,
		inference:  deps.Inference,
		windows:    deps.Windows,
		decision:   deps.Decision,
		dispatcher: deps.Dispatcher,
		governor:   deps.Governor,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		status:     newStatusBoard(nodeID, units),
		nowFn:      time.Now,
	}
}

// Start runs monitoring cycles until the context is canceled. The first
// cycle starts immediately; each following cycle starts interval after
// the previous one began, with no sleep at all when a cycle overruns.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("monitor starting",
		zap.String("node_id", m.nodeID),
		zap.Int("units", len(m.units)),
		zap.Duration("interval", m.interval))

	m.status.markStarted(m.nowFn())

	for {
		began := m.nowFn()
		m.RunCycle(ctx)

		elapsed := m.nowFn().Sub(began)

		sleep := m.interval - elapsed
		if sleep < 0 {
			m.logger.Warn("cycle overran poll interval",
				zap.Duration("elapsed", elapsed),
				zap.Duration("interval", m.interval))

			sleep = 0
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("monitor stopping", zap.String("node_id", m.nodeID))

			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle processes every unit once. Exported so tests and one-shot
// tooling can drive cycles without the loop.
func (m *Monitor) RunCycle(ctx context.Context) {
	began := m.nowFn()

	if m.governor != nil {
		if sample, err := m.governor.Sample(ctx); err != nil {
			m.logger.Warn("resource sample failed", zap.Error(err))
		} else if m.metrics != nil {
			m.metrics.MemoryMB.Set(sample.MemoryMB)
			m.metrics.CPUPercent.Set(sample.CPUPercent)
		}
	}

	for i := range m.units {
		unit := &m.units[i]

		if err := m.monitorUnit(ctx, unit); err != nil {
			m.logger.Error("unit cycle failed",
				zap.String("equipment_id", unit.ID),
				zap.Error(err))

			m.status.recordError(unit.ID, err, m.nowFn())

			if m.metrics != nil {
				m.metrics.UnitErrors.WithLabelValues(unit.ID).Inc()
			}
		}

		if ctx.Err() != nil {
			break
		}
	}

	m.status.setState(StateIdle)

	if m.metrics != nil {
		m.metrics.ObserveCycle(m.nowFn().Sub(began))
	}

	m.status.cycleDone(m.nowFn())
}

func (m *Monitor) monitorUnit(ctx context.Context, unit *models.EquipmentUnit) error {
	m.status.setState(StateReading)

	readings := m.readSensors(ctx, unit)

	m.status.setState(StateScoring)

	scores := m.scoreUnit(ctx, unit, readings)

	m.status.setState(StateDeciding)

	profile, err := registry.Profile(unit.Kind)
	if err != nil {
		return err
	}

	verdict := m.decision.Evaluate(unit, profile, scores, readings)

	if m.metrics != nil && !verdict.Empty() {
		m.metrics.Anomalies.WithLabelValues(unit.ID, string(verdict.Severity)).Inc()
	}

	m.status.setState(StateDispatching)

	results := m.dispatcher.Dispatch(ctx, unit, &verdict)

	if m.metrics != nil {
		for _, r := range results {
			m.metrics.Alerts.WithLabelValues(string(r.Status)).Inc()
		}
	}

	m.status.recordCycle(unit.ID, readings, scores, &verdict, results, m.windowFill(unit), m.nowFn())

	return nil
}

// readSensors reads every enabled sensor. A failed read is logged and
// dropped; downstream layers treat the sensor as absent for this cycle.
func (m *Monitor) readSensors(ctx context.Context, unit *models.EquipmentUnit) map[models.SensorKind]models.SensorReading {
	readings := make(map[models.SensorKind]models.SensorReading, len(unit.Sensors))

	for sensor := range unit.Sensors {
		if !unit.SensorEnabled(sensor) {
			continue
		}

		reading, err := m.provider.Read(ctx, unit, sensor)
		if err != nil {
			m.logger.Warn("sensor read failed",
				zap.String("equipment_id", unit.ID),
				zap.String("sensor", string(sensor)),
				zap.Error(err))

			continue
		}

		readings[sensor] = reading
	}

	return readings
}

// scoreUnit runs every model registered for the unit's kind. A model
// failure drops that one score; the raw-sensor safety path in the
// decision layer is unaffected.
func (m *Monitor) scoreUnit(ctx context.Context, unit *models.EquipmentUnit, readings map[models.SensorKind]models.SensorReading) map[string]float64 {
	scores := make(map[string]float64)

	for _, kind := range registry.Models(unit.Kind) {
		if !m.inference.Has(kind) {
			continue
		}

		switch kind {
		case models.ModelThermalCNN:
			m.scoreTensor(ctx, unit, kind, readings[models.SensorThermal], scores)
		case models.ModelAcousticCNN:
			m.scoreTensor(ctx, unit, kind, readings[models.SensorAcoustic], scores)
		case models.ModelSequenceAE:
			m.scoreSequence(ctx, unit, readings, scores)
		}
	}

	return scores
}

func (m *Monitor) scoreTensor(ctx context.Context, unit *models.EquipmentUnit, kind models.ModelKind, reading models.SensorReading, scores map[string]float64) {
	if !reading.Valid || len(reading.Tensor) == 0 {
		return
	}

	score, err := m.inference.Score(ctx, kind, reading.Tensor, reading.Shape)
	if err != nil {
		m.logger.Error("model scoring failed",
			zap.String("equipment_id", unit.ID),
			zap.String("model", string(kind)),
			zap.Error(err))

		return
	}

	scores[decision.SignalForModel(kind)] = score
}

// scoreSequence appends this cycle's feature vector and, once the window
// holds a full sequence, scores its reconstruction error.
func (m *Monitor) scoreSequence(ctx context.Context, unit *models.EquipmentUnit, readings map[models.SensorKind]models.SensorReading, scores map[string]float64) {
	features := timeseries.BuildFeatureVector(readings)

	if err := m.windows.Append(unit.ID, features); err != nil {
		m.logger.Error("feature append failed",
			zap.String("equipment_id", unit.ID),
			zap.Error(err))

		return
	}

	if !m.windows.Full(unit.ID) {
		return
	}

	window, shape := m.windows.Window(unit.ID)

	score, err := m.inference.ReconstructionError(ctx, models.ModelSequenceAE, timeseries.Normalize(window), shape)
	if err != nil {
		m.logger.Error("model scoring failed",
			zap.String("equipment_id", unit.ID),
			zap.String("model", string(models.ModelSequenceAE)),
			zap.Error(err))

		return
	}

	scores[models.SignalSequenceReconstruction] = score
}

func (m *Monitor) windowFill(unit *models.EquipmentUnit) int {
	for _, kind := range registry.Models(unit.Kind) {
		if kind == models.ModelSequenceAE {
			return m.windows.Len(unit.ID)
		}
	}

	return 0
}
