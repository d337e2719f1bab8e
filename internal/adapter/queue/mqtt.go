package queue

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/pkg/config"
)

const defaultConnectWait = 10 * time.Second

// MQTTQueue publishes fleet commands to an MQTT broker, the transport the
// drones listen on.
type MQTTQueue struct {
	client mqtt.Client
	qos    byte
	log    *zap.Logger
}

func NewMQTTQueue(cfg config.MQTTConfig, log *zap.Logger) (MessageQueue, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("MQTT connection lost", zap.Error(err))
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			log.Info("MQTT connected", zap.String("broker", cfg.BrokerURL))
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.KeepAlive > 0 {
		opts.SetKeepAlive(cfg.KeepAlive)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectWait(cfg)) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timeout", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return &MQTTQueue{
		client: client,
		qos:    cfg.QoS,
		log:    log,
	}, nil
}

func (q *MQTTQueue) Publish(topic string, data []byte) error {
	token := q.client.Publish(topic, q.qos, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	return nil
}

func (q *MQTTQueue) Subscribe(topic string, handler func(data []byte) error) error {
	token := q.client.Subscribe(topic, q.qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := handler(msg.Payload()); err != nil {
			q.log.Error("Error processing MQTT message", zap.String("topic", msg.Topic()), zap.Error(err))
		}
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribe %s: %w", topic, err)
	}
	q.log.Info("Subscribed to MQTT topic", zap.String("topic", topic))
	return nil
}

func (q *MQTTQueue) Ping() error {
	if !q.client.IsConnectionOpen() {
		return errors.New("mqtt connection not open")
	}
	return nil
}

func (q *MQTTQueue) Close() error {
	q.client.Disconnect(250)
	return nil
}

func connectWait(cfg config.MQTTConfig) time.Duration {
	if cfg.ConnectTimeout > 0 {
		return cfg.ConnectTimeout
	}
	return defaultConnectWait
}
