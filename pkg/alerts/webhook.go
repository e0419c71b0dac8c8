package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/config"
	"github.com/premonitor/premonitor/pkg/models"
)

const webhookTimeout = 10 * time.Second

// WebhookChannel posts alerts as JSON to a configured URL.
type WebhookChannel struct {
	config     config.WebhookConfig
	client     *http.Client
	bufferPool *sync.Pool
	logger     *zap.Logger
}

func NewWebhookChannel(cfg config.WebhookConfig, logger *zap.Logger) *WebhookChannel {
	return &WebhookChannel{
		config: cfg,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
		logger: logger,
	}
}

func (w *WebhookChannel) Kind() models.ChannelKind {
	return models.ChannelWebhook
}

func (w *WebhookChannel) Enabled() bool {
	return w.config.Enabled && w.config.URL != ""
}

func (w *WebhookChannel) Send(ctx context.Context, alert *Alert) error {
	if !w.Enabled() {
		return errChannelDisabled
	}

	payload, err := w.preparePayload(alert)
	if err != nil {
		return fmt.Errorf("failed to prepare payload: %w", err)
	}

	return w.sendRequest(ctx, payload)
}

// webhookPayload is the documented wire format. Receivers depend on the
// camelCase keys and the signals array; the array holds one entry per
// dispatched alert.
type webhookPayload struct {
	EquipmentID string               `json:"equipmentId"`
	Kind        models.EquipmentKind `json:"kind"`
	Name        string               `json:"name,omitempty"`
	Location    string               `json:"location,omitempty"`
	NodeID      string               `json:"nodeId"`
	Severity    models.Severity      `json:"severity"`
	Signals     []webhookSignal      `json:"signals"`
	Timestamp   time.Time            `json:"timestamp"`
}

type webhookSignal struct {
	Name      string  `json:"name"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
	RawSafety bool    `json:"rawSafety,omitempty"`
}

func (w *WebhookChannel) preparePayload(alert *Alert) ([]byte, error) {
	payload := webhookPayload{
		EquipmentID: alert.EquipmentID,
		Kind:        alert.Kind,
		Name:        alert.Name,
		Location:    alert.Location,
		NodeID:      alert.NodeID,
		Severity:    alert.Severity,
		Signals: []webhookSignal{{
			Name:      alert.Signal.Name,
			Observed:  alert.Signal.Observed,
			Threshold: alert.Signal.Threshold,
			RawSafety: alert.Signal.RawSafety,
		}},
		Timestamp: alert.Timestamp,
	}

	buf := w.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer w.bufferPool.Put(buf)

	enc := json.NewEncoder(buf)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("failed to marshal alert: %w", err)
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func (w *WebhookChannel) sendRequest(ctx context.Context, payload []byte) error {
	buf := w.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer w.bufferPool.Put(buf)

	buf.Write(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	w.setHeaders(req)

	resp, err := w.client.Do(req) //nolint:bodyclose // Response body is closed later
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			w.logger.Warn("failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBuf := w.bufferPool.Get().(*bytes.Buffer)
		errBuf.Reset()
		defer w.bufferPool.Put(errBuf)

		_, _ = io.Copy(errBuf, resp.Body)

		return fmt.Errorf("%w: status=%d body=%s", errWebhookStatus, resp.StatusCode, errBuf.String())
	}

	return nil
}

func (w *WebhookChannel) setHeaders(req *http.Request) {
	hasContentType := false

	for _, header := range w.config.Headers {
		if strings.EqualFold(header.Key, "content-type") {
			hasContentType = true
		}

		req.Header.Set(header.Key, header.Value)
	}

	if !hasContentType {
		req.Header.Set("Content-Type", "application/json")
	}
}
