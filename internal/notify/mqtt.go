package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"aifsfetch/internal/config"
	"aifsfetch/internal/models"
)

const publishTimeout = 5 * time.Second

// mqttClient is the part of mqtt.Client used here
type mqttClient interface {
	IsConnected() bool
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTNotifier publishes reports as retained QoS 1 messages on
// {prefix}/{YYYYMMDDHH}/report
type MQTTNotifier struct {
	client mqttClient
	prefix string
	logger *slog.Logger
}

func NewMQTTNotifier(cfg config.MQTTConfig, logger *slog.Logger) *MQTTNotifier {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})

	return &MQTTNotifier{
		client: mqtt.NewClient(opts),
		prefix: cfg.TopicPrefix,
		logger: logger,
	}
}

// Topic returns the topic a report for run is published on
func (n *MQTTNotifier) Topic(run models.Run) string {
	return fmt.Sprintf("%s/%s/report", n.prefix, run.Key())
}

// Connect waits for the broker connection, giving up when ctx is done
func (n *MQTTNotifier) Connect(ctx context.Context) error {
	if n.client.IsConnected() {
		return nil
	}

	token := n.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (n *MQTTNotifier) Notify(ctx context.Context, report *models.BatchReport) error {
	if err := n.Connect(ctx); err != nil {
		return err
	}

	data, err := Encode(report)
	if err != nil {
		return err
	}

	topic := n.Topic(report.Run)
	token := n.client.Publish(topic, 1, true, data) // retained
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		n.logger.Error("failed to publish report to mqtt", "topic", topic, "error", err)
		return fmt.Errorf("publish report: %w", err)
	}

	n.logger.Info("published report to mqtt", "topic", topic, "run_id", report.RunID)
	return nil
}

func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(250)
	return nil
}
