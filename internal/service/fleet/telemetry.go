package fleet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

// SubscribeTelemetry feeds frames published by drones on topic into
// RecordTelemetry. Frames from unknown drones are logged and dropped so the
// broker does not redeliver them.
func SubscribeTelemetry(ctx context.Context, mq queue.MessageQueue, codec queue.Codec, topic string, svc ports.FleetService, log *zap.Logger) error {
	if topic == "" {
		return nil
	}
	if codec == nil {
		codec = queue.JSON
	}
	return mq.Subscribe(topic, func(data []byte) error {
		var frame domain.Telemetry
		if err := codec.Unmarshal(data, &frame); err != nil {
			log.Warn("Discarding undecodable telemetry frame", zap.Int("bytes", len(data)), zap.Error(err))
			return nil
		}
		err := svc.RecordTelemetry(ctx, frame)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrDroneNotFound), errors.Is(err, domain.ErrInvalidInput):
			log.Warn("Discarding telemetry frame", zap.String("drone_id", frame.DroneID), zap.Error(err))
			return nil
		default:
			return fmt.Errorf("record telemetry: %w", err)
		}
	})
}
