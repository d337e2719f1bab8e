package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/pkg/config"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
	// Ping reports whether the broker connection is currently usable.
	Ping() error
}

// New connects the driver selected in cfg.Driver.
func New(cfg config.Config, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Queue.Driver {
	case "nats":
		return NewNATSQueue(cfg.NATS, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg.RabbitMQ, log)
	case "mqtt":
		return NewMQTTQueue(cfg.MQTT, log)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}
