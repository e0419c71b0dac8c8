package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/premonitor/premonitor/pkg/config"
	"github.com/premonitor/premonitor/pkg/models"
)

// EmailChannel formats alerts for mail delivery. The actual send goes
// through an injected transport so the core never touches SMTP.
type EmailChannel struct {
	config    config.EmailConfig
	transport EmailTransport
}

func NewEmailChannel(cfg config.EmailConfig, transport EmailTransport) *EmailChannel {
	return &EmailChannel{config: cfg, transport: transport}
}

func (e *EmailChannel) Kind() models.ChannelKind {
	return models.ChannelEmail
}

func (e *EmailChannel) Enabled() bool {
	return e.config.Enabled && e.transport != nil
}

func (e *EmailChannel) Send(ctx context.Context, alert *Alert) error {
	if !e.Enabled() {
		return errChannelDisabled
	}

	if e.config.Recipient == "" {
		return errNoRecipient
	}

	return e.transport.Deliver(ctx, e.config.Recipient, emailSubject(alert), emailBody(alert))
}

func emailSubject(alert *Alert) string {
	return fmt.Sprintf("[premonitor] %s: %s %s", alert.Severity, alert.EquipmentID, alert.Signal.Name)
}

func emailBody(alert *Alert) string {
	name := alert.Name
	if name == "" {
		name = alert.EquipmentID
	}

	location := alert.Location
	if location == "" {
		location = "unknown"
	}

	return fmt.Sprintf(
		"Anomaly detected on %s (%s).\n\n"+
			"Equipment: %s\n"+
			"Location:  %s\n"+
			"Node:      %s\n"+
			"Signal:    %s\n"+
			"Observed:  %.4f\n"+
			"Threshold: %.4f\n"+
			"Severity:  %s\n"+
			"Time:      %s\n",
		name, alert.Kind,
		alert.EquipmentID,
		location,
		alert.NodeID,
		alert.Signal.Name,
		alert.Signal.Observed,
		alert.Signal.Threshold,
		alert.Severity,
		alert.Timestamp.UTC().Format(time.RFC3339),
	)
}
