package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"aifsfetch/internal/config"
	"aifsfetch/internal/models"
)

// streamClient is the part of *redis.Client used here
type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisNotifier appends reports to a Redis stream under the "data" field
type RedisNotifier struct {
	client streamClient
	stream string
	logger *slog.Logger
}

func NewRedisNotifier(cfg config.RedisConfig, logger *slog.Logger) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisNotifier{client: client, stream: cfg.Stream, logger: logger}
}

func (n *RedisNotifier) Notify(ctx context.Context, report *models.BatchReport) error {
	data, err := Encode(report)
	if err != nil {
		return err
	}

	id, err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		n.logger.Error("failed to publish report to redis", "stream", n.stream, "error", err)
		return fmt.Errorf("failed to publish to redis stream %s: %w", n.stream, err)
	}

	n.logger.Info("published report to redis", "stream", n.stream, "id", id, "run", report.Run.String())
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
