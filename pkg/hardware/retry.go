package hardware

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 500 * time.Millisecond
	backoffMultiplier   = 2
)

// retryProvider wraps a Provider with bounded exponential backoff on
// transient failures. Non-transient errors pass through immediately; the
// final transient error is surfaced so the unit simply misses this cycle
// rather than blocking the loop.
type retryProvider struct {
	inner        Provider
	maxAttempts  int
	initialDelay time.Duration
	logger       *zap.Logger
}

// WithRetry decorates a provider with the retry policy. Zero arguments
// select the defaults (3 attempts, 500ms initial delay, doubling).
func WithRetry(inner Provider, maxAttempts int, initialDelay time.Duration, logger *zap.Logger) Provider {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}

	return &retryProvider{
		inner:        inner,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		logger:       logger,
	}
}

func (r *retryProvider) Read(ctx context.Context, unit *models.EquipmentUnit, sensor models.SensorKind) (models.SensorReading, error) {
	delay := r.initialDelay

	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		reading, err := r.inner.Read(ctx, unit, sensor)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("sensor read recovered",
					zap.String("equipment_id", unit.ID),
					zap.String("sensor", string(sensor)),
					zap.Int("attempt", attempt))
			}

			return reading, nil
		}

		if !errors.Is(err, ErrTransient) {
			return models.SensorReading{}, err
		}

		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		r.logger.Warn("transient sensor read failure, retrying",
			zap.String("equipment_id", unit.ID),
			zap.String("sensor", string(sensor)),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return models.SensorReading{}, ctx.Err()
		case <-timer.C:
		}

		delay *= backoffMultiplier
	}

	return models.SensorReading{}, lastErr
}
