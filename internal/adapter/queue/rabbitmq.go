package queue

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/pkg/config"
)

// RabbitMQQueue routes fleet topics through a single topic exchange; the topic
// becomes the routing key.
type RabbitMQQueue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	exchange string
	mu       sync.RWMutex
	done     chan struct{}
	subs     []rabbitSub
	log      *zap.Logger
}

type rabbitSub struct {
	key     string
	handler func([]byte) error
}

func NewRabbitMQQueue(cfg config.RabbitMQConfig, log *zap.Logger) (MessageQueue, error) {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = "dronevox"
	}
	q := &RabbitMQQueue{
		url:      cfg.URL,
		exchange: exchange,
		done:     make(chan struct{}),
		log:      log,
	}
	if err := q.connect(); err != nil {
		return nil, err
	}

	go q.monitorConnection()

	log.Info("Successfully connected to RabbitMQ", zap.String("exchange", exchange))
	return q, nil
}

func routingKey(topic string) string {
	return strings.ReplaceAll(topic, "/", ".")
}

func (q *RabbitMQQueue) connect() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	if err := ch.ExchangeDeclare(q.exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}

	q.mu.Lock()
	q.conn = conn
	q.channel = ch
	q.mu.Unlock()
	return nil
}

func (q *RabbitMQQueue) Publish(topic string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	err := q.channel.Publish(
		q.exchange, routingKey(topic), false, false,
		amqp.Publishing{
			ContentType:  "application/octet-stream",
			DeliveryMode: amqp.Persistent,
			Body:         data,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (q *RabbitMQQueue) Subscribe(topic string, handler func(data []byte) error) error {
	sub := rabbitSub{key: routingKey(topic), handler: handler}
	if err := q.consume(sub); err != nil {
		return err
	}

	q.mu.Lock()
	q.subs = append(q.subs, sub)
	q.mu.Unlock()
	return nil
}

func (q *RabbitMQQueue) consume(sub rabbitSub) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, sub.key, q.exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}
	msgs, err := ch.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := sub.handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err),
				)
			}
		}
	}()

	q.log.Info("Subscribed to RabbitMQ topic", zap.String("routing_key", sub.key))
	return nil
}

func (q *RabbitMQQueue) Ping() error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.conn == nil || q.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

func (q *RabbitMQQueue) Close() error {
	close(q.done)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// monitorConnection redials after a broker drop and restores subscriptions.
func (q *RabbitMQQueue) monitorConnection() {
	for {
		q.mu.RLock()
		conn := q.conn
		q.mu.RUnlock()

		select {
		case <-q.done:
			return
		case reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1)):
			if !ok || reason == nil {
				return
			}
			q.log.Warn("RabbitMQ connection lost, reconnecting", zap.String("reason", reason.Reason))
		}

		for {
			select {
			case <-q.done:
				return
			case <-time.After(5 * time.Second):
			}
			if err := q.connect(); err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}
			break
		}

		q.mu.RLock()
		subs := append([]rabbitSub(nil), q.subs...)
		q.mu.RUnlock()
		for _, sub := range subs {
			if err := q.consume(sub); err != nil {
				q.log.Error("Failed to restore RabbitMQ subscription", zap.String("routing_key", sub.key), zap.Error(err))
			}
		}
		q.log.Info("Successfully reconnected to RabbitMQ")
	}
}
