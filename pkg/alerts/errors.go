package alerts

import "fmt"

var (
	errChannelDisabled = fmt.Errorf("alert channel is disabled")
	errWebhookStatus   = fmt.Errorf("webhook returned non-2xx status")
	errNoRecipient     = fmt.Errorf("no recipient configured")
)
