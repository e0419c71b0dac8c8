package alerts

import (
	"context"
	"fmt"

	"github.com/premonitor/premonitor/pkg/config"
	"github.com/premonitor/premonitor/pkg/models"
)

// SMSChannel formats alerts as short messages. The dispatcher only routes
// critical alerts here.
type SMSChannel struct {
	config    config.SMSConfig
	transport SMSTransport
}

func NewSMSChannel(cfg config.SMSConfig, transport SMSTransport) *SMSChannel {
	return &SMSChannel{config: cfg, transport: transport}
}

func (s *SMSChannel) Kind() models.ChannelKind {
	return models.ChannelSMS
}

func (s *SMSChannel) Enabled() bool {
	return s.config.Enabled && s.transport != nil
}

func (s *SMSChannel) Send(ctx context.Context, alert *Alert) error {
	if !s.Enabled() {
		return errChannelDisabled
	}

	if s.config.Recipient == "" {
		return errNoRecipient
	}

	message := fmt.Sprintf("%s %s: %s %.3f (limit %.3f)",
		alert.Severity, alert.EquipmentID,
		alert.Signal.Name, alert.Signal.Observed, alert.Signal.Threshold)

	return s.transport.Deliver(ctx, s.config.Recipient, message)
}
