package config

import (
	"fmt"
	"os"
	"strconv"
)

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
}

func defaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		Stream: "aifs_reports",
	}
}

// applyEnv overrides fields from REDIS_*. Setting REDIS_ADDR enables the publisher.
func (r *RedisConfig) applyEnv() {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		r.Addr = addr
		r.Enabled = true
	}
	r.Password = getEnv("REDIS_PASSWORD", r.Password)
	r.Stream = getEnv("REDIS_STREAM", r.Stream)

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			r.DB = parsed
		}
	}
}

func (r *RedisConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Addr == "" {
		return fmt.Errorf("notify.redis.addr cannot be empty when redis is enabled")
	}
	if r.Stream == "" {
		return fmt.Errorf("notify.redis.stream cannot be empty when redis is enabled")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
