package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/premonitor/premonitor/pkg/alerts"
	"github.com/premonitor/premonitor/pkg/models"
)

var errUnknownUnit = fmt.Errorf("unknown equipment unit")

// UnitStatus is the last observed state of one unit, for the status API.
type UnitStatus struct {
	EquipmentID      string               `json:"equipment_id"`
	Kind             models.EquipmentKind `json:"kind"`
	Name             string               `json:"name,omitempty"`
	Location         string               `json:"location,omitempty"`
	LastCycle        time.Time            `json:"last_cycle"`
	LastError        string               `json:"last_error,omitempty"`
	WindowFill       int                  `json:"window_fill"`
	Scores           map[string]float64   `json:"scores,omitempty"`
	Severity         models.Severity      `json:"severity,omitempty"`
	Signals          []models.Signal      `json:"signals,omitempty"`
	SensorsRead      int                  `json:"sensors_read"`
	AlertsSent       uint64               `json:"alerts_sent"`
	AlertsSuppressed uint64               `json:"alerts_suppressed"`
	AlertsFailed     uint64               `json:"alerts_failed"`
}

// Snapshot is the monitor's overall state at one instant.
type Snapshot struct {
	NodeID    string       `json:"node_id"`
	State     State        `json:"state"`
	Started   time.Time    `json:"started"`
	Cycles    uint64       `json:"cycles"`
	LastCycle time.Time    `json:"last_cycle,omitempty"`
	Units     []UnitStatus `json:"units"`
}

// statusBoard is the mutable status store behind the snapshots. The
// cycle loop writes, the HTTP handlers read.
type statusBoard struct {
	mu      sync.RWMutex
	nodeID  string
	state   State
	started time.Time
	cycles  uint64
	last    time.Time
	order   []string
	units   map[string]*UnitStatus
}

func newStatusBoard(nodeID string, units []models.EquipmentUnit) *statusBoard {
	b := &statusBoard{
		nodeID: nodeID,
		state:  StateIdle,
		order:  make([]string, 0, len(units)),
		units:  make(map[string]*UnitStatus, len(units)),
	}

	for _, u := range units {
		b.order = append(b.order, u.ID)
		b.units[u.ID] = &UnitStatus{
			EquipmentID: u.ID,
			Kind:        u.Kind,
			Name:        u.Name,
			Location:    u.Location,
		}
	}

	return b
}

func (b *statusBoard) markStarted(at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.started = at
}

func (b *statusBoard) setState(state State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = state
}

func (b *statusBoard) cycleDone(at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cycles++
	b.last = at
}

func (b *statusBoard) recordError(equipmentID string, err error, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if u, ok := b.units[equipmentID]; ok {
		u.LastError = err.Error()
		u.LastCycle = at
	}
}

func (b *statusBoard) recordCycle(
	equipmentID string,
	readings map[models.SensorKind]models.SensorReading,
	scores map[string]float64,
	verdict *models.AnomalyVerdict,
	results []alerts.DispatchResult,
	windowFill int,
	at time.Time,
) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.units[equipmentID]
	if !ok {
		return
	}

	u.LastCycle = at
	u.LastError = ""
	u.WindowFill = windowFill
	u.SensorsRead = len(readings)
	u.Severity = verdict.Severity
	u.Signals = append([]models.Signal(nil), verdict.Signals...)

	u.Scores = make(map[string]float64, len(scores))
	for k, v := range scores {
		u.Scores[k] = v
	}

	for _, r := range results {
		switch r.Status {
		case alerts.StatusSent:
			u.AlertsSent++
		case alerts.StatusSuppressed:
			u.AlertsSuppressed++
		case alerts.StatusFailed:
			u.AlertsFailed++
		}
	}
}

// Snapshot returns a copy of the overall status.
func (m *Monitor) Snapshot() Snapshot {
	b := m.status

	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		NodeID:    b.nodeID,
		State:     b.state,
		Started:   b.started,
		Cycles:    b.cycles,
		LastCycle: b.last,
		Units:     make([]UnitStatus, 0, len(b.order)),
	}

	for _, id := range b.order {
		snap.Units = append(snap.Units, *b.units[id])
	}

	return snap
}

// UnitStatus returns a copy of one unit's status.
func (m *Monitor) UnitStatus(equipmentID string) (UnitStatus, error) {
	b := m.status

	b.mu.RLock()
	defer b.mu.RUnlock()

	u, ok := b.units[equipmentID]
	if !ok {
		return UnitStatus{}, fmt.Errorf("%w: %s", errUnknownUnit, equipmentID)
	}

	return *u, nil
}
