// Package notify publishes batch reports to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"aifsfetch/internal/config"
	"aifsfetch/internal/models"
)

// MessageType tags every published payload
const MessageType = "aifs_batch"

// Notifier publishes one batch report
type Notifier interface {
	Notify(ctx context.Context, report *models.BatchReport) error
	Close() error
}

// Message is the JSON document sent to every sink
type Message struct {
	Type      string              `json:"type"`
	Run       string              `json:"run"`
	RunID     string              `json:"run_id"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Bytes     int64               `json:"bytes"`
	Report    *models.BatchReport `json:"report"`
}

// Encode serializes report into a Message
func Encode(report *models.BatchReport) ([]byte, error) {
	data, err := json.Marshal(Message{
		Type:      MessageType,
		Run:       report.Run.Key(),
		RunID:     report.RunID,
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Bytes:     report.Bytes(),
		Report:    report,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report %s: %w", report.RunID, err)
	}
	return data, nil
}

// Multi fans a report out to several notifiers. One failing sink does not
// prevent the others from being tried.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, report *models.BatchReport) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds a notifier for every enabled sink. The result may be empty.
func FromConfig(cfg config.NotifyConfig, logger *slog.Logger) Multi {
	var m Multi
	if cfg.Redis.Enabled {
		m = append(m, NewRedisNotifier(cfg.Redis, logger))
	}
	if cfg.MQTT.Enabled {
		m = append(m, NewMQTTNotifier(cfg.MQTT, logger))
	}
	return m
}
