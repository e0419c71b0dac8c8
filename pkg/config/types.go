package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/premonitor/premonitor/pkg/models"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// ArtifactConfig points at one model artifact on disk. Shape, encoding and
// serialization are declared by the artifact itself; the path is all the
// core needs at startup.
type ArtifactConfig struct {
	Kind models.ModelKind `json:"kind"`
	Path string           `json:"path"`
}

// WebhookConfig configures the webhook alert channel.
type WebhookConfig struct {
	Enabled bool     `json:"enabled"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers,omitempty"` // Optional custom headers
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EmailConfig configures the email alert channel. Transport and
// credentials live outside the core; only the recipient is declared here.
type EmailConfig struct {
	Enabled   bool   `json:"enabled"`
	Recipient string `json:"recipient"`
}

// SMSConfig configures the SMS alert channel.
type SMSConfig struct {
	Enabled   bool   `json:"enabled"`
	Recipient string `json:"recipient"`
}

// AlertsConfig groups the channel configurations.
type AlertsConfig struct {
	Cooldown Duration      `json:"cooldown"`
	Webhook  WebhookConfig `json:"webhook,omitempty"`
	Email    EmailConfig   `json:"email,omitempty"`
	SMS      SMSConfig     `json:"sms,omitempty"`
}

// SecurityConfig tunes tamper detection and the after-hours schedule.
// OpenWeekends treats weekends as staffed business hours; by default the
// site is considered unattended on weekends.
type SecurityConfig struct {
	TamperEnabled          bool    `json:"tamper_enabled"`
	VibrationThresholdG    float64 `json:"vibration_threshold_g"`
	TemperatureRateCPerMin float64 `json:"temperature_rate_c_per_min"`
	BusinessStart          string  `json:"business_start"`
	BusinessEnd            string  `json:"business_end"`
	OpenWeekends           bool    `json:"open_weekends"`
}

// HardwareMode selects the sensor capability implementation at startup.
type HardwareMode string

const (
	HardwareSimulated HardwareMode = "simulated"
	HardwareSNMP      HardwareMode = "snmp"
)

// MonitorConfig is the top-level runtime configuration for one
// orchestrator instance.
type MonitorConfig struct {
	NodeID         string                 `json:"node_id"`
	ListenAddr     string                 `json:"listen_addr"`
	PollInterval   Duration               `json:"poll_interval"`
	WindowCapacity int                    `json:"window_capacity"`
	HardwareMode   HardwareMode           `json:"hardware_mode"`
	ResourceLimits models.ResourceLimits  `json:"resource_limits"`
	Equipment      []models.EquipmentUnit `json:"equipment"`
	Artifacts      []ArtifactConfig       `json:"artifacts"`
	Alerts         AlertsConfig           `json:"alerts"`
	Security       SecurityConfig         `json:"security,omitempty"`
}

// Validate implements the Validator interface. Defaults mirror the
// original deployment: 30s cycles, 300s cooldown, 50-step windows.
func (c *MonitorConfig) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("%w: node_id is required", errInvalidConfig)
	}

	if len(c.Equipment) == 0 {
		return fmt.Errorf("%w: at least one equipment entry is required", errInvalidConfig)
	}

	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = Duration(30 * time.Second)
	}

	if time.Duration(c.Alerts.Cooldown) == 0 {
		c.Alerts.Cooldown = Duration(300 * time.Second)
	}

	if c.WindowCapacity == 0 {
		c.WindowCapacity = 50
	}

	if c.HardwareMode == "" {
		c.HardwareMode = HardwareSimulated
	}

	if c.Security.VibrationThresholdG == 0 {
		c.Security.VibrationThresholdG = 2.0
	}

	if c.Security.TemperatureRateCPerMin == 0 {
		c.Security.TemperatureRateCPerMin = 5.0
	}

	if c.Security.BusinessStart == "" {
		c.Security.BusinessStart = "08:00"
	}

	if c.Security.BusinessEnd == "" {
		c.Security.BusinessEnd = "18:00"
	}

	if c.HardwareMode != HardwareSimulated && c.HardwareMode != HardwareSNMP {
		return fmt.Errorf("%w: unknown hardware_mode %q", errInvalidConfig, c.HardwareMode)
	}

	return nil
}
