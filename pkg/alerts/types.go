package alerts

import (
	"time"

	"github.com/premonitor/premonitor/pkg/models"
)

// Alert is one deliverable notification: a single triggered signal on a
// single unit. A verdict with three signals produces three alerts, each
// rate-limited independently.
type Alert struct {
	EquipmentID string               `json:"equipment_id"`
	Kind        models.EquipmentKind `json:"kind"`
	Name        string               `json:"name,omitempty"`
	Location    string               `json:"location,omitempty"`
	NodeID      string               `json:"node_id"`
	Severity    models.Severity      `json:"severity"`
	Signal      models.Signal        `json:"signal"`
	Timestamp   time.Time            `json:"timestamp"`
}

// Status is the dispatch outcome for one signal on one channel.
type Status string

const (
	StatusSent       Status = "sent"
	StatusSuppressed Status = "suppressed"
	StatusFailed     Status = "failed"
)

// DispatchResult records what happened to one signal. Suppressed signals
// carry no channel; they never reached one.
type DispatchResult struct {
	Signal  string             `json:"signal"`
	Channel models.ChannelKind `json:"channel,omitempty"`
	Status  Status             `json:"status"`
	Err     error              `json:"-"`
}
