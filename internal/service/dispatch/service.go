package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/adapter/queue"
	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/observability/telemetry"
	"github.com/seu-repo/dronevox/internal/ports"
)

// Service publishes drone commands on the fleet topic.
type Service struct {
	mq    queue.MessageQueue
	codec queue.Codec
	topic string
	hub   ports.Broadcaster
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates the dispatcher. hub may be nil.
func NewService(mq queue.MessageQueue, codec queue.Codec, topic string, hub ports.Broadcaster, log *zap.Logger) *Service {
	if codec == nil {
		codec = queue.JSON
	}
	return &Service{
		mq:    mq,
		codec: codec,
		topic: topic,
		hub:   hub,
		log:   log,
		now:   time.Now,
	}
}

var _ ports.DispatchService = (*Service)(nil)

// Dispatch encodes cmd and publishes it. ID and IssuedAt are filled in when empty.
func (s *Service) Dispatch(ctx context.Context, cmd *domain.DroneCommand) error {
	if cmd == nil || cmd.DroneID == "" {
		return fmt.Errorf("%w: droneid is required", domain.ErrInvalidInput)
	}
	switch cmd.Event {
	case domain.DroneEventSend:
		if cmd.AreaID == "" {
			return fmt.Errorf("%w: areaid is required to send a drone", domain.ErrInvalidInput)
		}
	case domain.DroneEventRecall:
	default:
		return fmt.Errorf("%w: unknown event %q", domain.ErrInvalidInput, cmd.Event)
	}

	if cmd.ID == "" {
		cmd.ID = uuid.New().String()
	}
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = s.now().UTC()
	}

	_, span := telemetry.StartSpan(ctx, "dispatch.publish",
		attribute.String("drone.id", cmd.DroneID),
		attribute.String("event", string(cmd.Event)),
		attribute.String("topic", s.topic),
	)
	defer span.End()

	data, err := s.codec.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode drone command: %w", err)
	}

	if err := s.mq.Publish(s.topic, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		telemetry.DispatchTotal.WithLabelValues(string(cmd.Event), "error").Inc()
		s.log.Error("Failed to publish drone command",
			zap.String("command_id", cmd.ID),
			zap.String("drone_id", cmd.DroneID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish drone command: %w", err)
	}

	telemetry.DispatchTotal.WithLabelValues(string(cmd.Event), "ok").Inc()
	s.log.Info("Drone command dispatched",
		zap.String("command_id", cmd.ID),
		zap.String("event", string(cmd.Event)),
		zap.String("drone_id", cmd.DroneID),
		zap.String("area_id", cmd.AreaID),
		zap.String("source", cmd.Source),
	)
	if s.hub != nil {
		s.hub.Broadcast("command_dispatched", cmd)
	}
	return nil
}

// Send builds a send_drone command toward target.
func (s *Service) Send(ctx context.Context, drone *domain.Drone, target *domain.Target, source string) (*domain.DroneCommand, error) {
	if drone == nil || target == nil {
		return nil, domain.ErrIncompleteCommand
	}
	cmd := &domain.DroneCommand{
		Event:      domain.DroneEventSend,
		DroneID:    drone.DroneID,
		AreaID:     target.AreaID,
		SensorID:   target.SensorID,
		Latitude:   target.Latitude,
		Longitude:  target.Longitude,
		USBAddress: drone.USBAddress,
		Source:     source,
	}
	if err := s.Dispatch(ctx, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Recall builds a recall_drone command pointing the drone back at its home area.
func (s *Service) Recall(ctx context.Context, drone *domain.Drone, source string) (*domain.DroneCommand, error) {
	if drone == nil {
		return nil, domain.ErrIncompleteCommand
	}
	cmd := &domain.DroneCommand{
		Event:      domain.DroneEventRecall,
		DroneID:    drone.DroneID,
		AreaID:     drone.AreaID,
		USBAddress: drone.USBAddress,
		Source:     source,
	}
	if drone.Area != nil {
		cmd.Latitude = drone.Area.Latitude
		cmd.Longitude = drone.Area.Longitude
	}
	if err := s.Dispatch(ctx, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}
