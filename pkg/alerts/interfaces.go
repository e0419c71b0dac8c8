package alerts

import (
	"context"

	"github.com/premonitor/premonitor/pkg/models"
)

//go:generate mockgen -destination=mock_alerts.go -package=alerts github.com/premonitor/premonitor/pkg/alerts Channel,EmailTransport,SMSTransport

// Channel delivers alerts over one medium. Send is called once per alert;
// the dispatcher owns retries-by-cooldown, channels own nothing but
// delivery.
type Channel interface {
	Kind() models.ChannelKind
	Enabled() bool
	Send(ctx context.Context, alert *Alert) error
}

// EmailTransport is the outbound mail hop. The core only formats subject
// and body; SMTP details and credentials live behind this interface.
type EmailTransport interface {
	Deliver(ctx context.Context, recipient, subject, body string) error
}

// SMSTransport is the outbound SMS hop.
type SMSTransport interface {
	Deliver(ctx context.Context, recipient, message string) error
}
