package config

import (
	"fmt"
	"os"
	"strings"
)

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

func defaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:      "localhost",
		Port:        1883,
		ClientID:    "aifsfetch",
		TopicPrefix: "aifs",
	}
}

// applyEnv overrides fields from MQTT_*. Setting MQTT_BROKER enables the publisher.
func (m *MQTTConfig) applyEnv() error {
	if broker := strings.TrimSpace(os.Getenv("MQTT_BROKER")); broker != "" {
		m.Broker = broker
		m.Enabled = true
	}

	port, err := getEnvInt("MQTT_PORT", m.Port)
	if err != nil {
		return err
	}
	m.Port = port

	m.ClientID = getEnv("MQTT_CLIENT_ID", m.ClientID)
	return nil
}

func (m *MQTTConfig) validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Broker == "" {
		return fmt.Errorf("notify.mqtt.broker cannot be empty when mqtt is enabled")
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("notify.mqtt.port out of range: %d", m.Port)
	}
	if m.TopicPrefix == "" {
		return fmt.Errorf("notify.mqtt.topic_prefix cannot be empty when mqtt is enabled")
	}
	return nil
}
