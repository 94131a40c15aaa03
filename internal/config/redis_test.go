package config

import (
	"os"
	"testing"
)

func TestRedisConfig_ApplyEnvFromEnvVars(t *testing.T) {
	origAddr := os.Getenv("REDIS_ADDR")
	origPassword := os.Getenv("REDIS_PASSWORD")
	origDB := os.Getenv("REDIS_DB")
	origStream := os.Getenv("REDIS_STREAM")

	defer func() {
		os.Setenv("REDIS_ADDR", origAddr)
		os.Setenv("REDIS_PASSWORD", origPassword)
		os.Setenv("REDIS_DB", origDB)
		os.Setenv("REDIS_STREAM", origStream)
	}()

	os.Setenv("REDIS_ADDR", "testhost:6380")
	os.Setenv("REDIS_PASSWORD", "testpassword")
	os.Setenv("REDIS_DB", "5")
	os.Setenv("REDIS_STREAM", "test_stream")

	cfg := redisFromEnv()

	if cfg.Addr != "testhost:6380" {
		t.Errorf("applyEnv().Addr = %v, want %v", cfg.Addr, "testhost:6380")
	}

	if !cfg.Enabled {
		t.Error("applyEnv().Enabled = false, want true when REDIS_ADDR is set")
	}

	if cfg.Password != "testpassword" {
		t.Errorf("applyEnv().Password = %v, want %v", cfg.Password, "testpassword")
	}

	if cfg.DB != 5 {
		t.Errorf("applyEnv().DB = %v, want %v", cfg.DB, 5)
	}

	if cfg.Stream != "test_stream" {
		t.Errorf("applyEnv().Stream = %v, want %v", cfg.Stream, "test_stream")
	}
}

func TestRedisConfig_ApplyEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := redisFromEnv()

	if cfg.Enabled {
		t.Error("applyEnv().Enabled = true, want false without REDIS_ADDR")
	}

	if cfg.Addr != "localhost:6379" {
		t.Errorf("applyEnv().Addr = %v, want %v", cfg.Addr, "localhost:6379")
	}

	if cfg.Password != "" {
		t.Errorf("applyEnv().Password = %v, want empty string", cfg.Password)
	}

	if cfg.DB != 0 {
		t.Errorf("applyEnv().DB = %v, want %v", cfg.DB, 0)
	}

	if cfg.Stream != "aifs_reports" {
		t.Errorf("applyEnv().Stream = %v, want %v", cfg.Stream, "aifs_reports")
	}
}

func TestRedisConfig_ApplyEnvInvalidDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "invalid")

	cfg := redisFromEnv()

	if cfg.DB != 0 {
		t.Errorf("applyEnv().DB = %v, want %v (default on parse error)", cfg.DB, 0)
	}
}

func redisFromEnv() RedisConfig {
	cfg := defaultRedisConfig()
	cfg.applyEnv()
	return cfg
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "env var set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "env var not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			} else {
				os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	clearEnv(t)

	if got, err := getEnvInt("AIFS_HORIZON", 360); err != nil || got != 360 {
		t.Errorf("getEnvInt() unset = %v, %v, want 360, nil", got, err)
	}

	t.Setenv("AIFS_HORIZON", "120")
	if got, err := getEnvInt("AIFS_HORIZON", 360); err != nil || got != 120 {
		t.Errorf("getEnvInt() = %v, %v, want 120, nil", got, err)
	}

	t.Setenv("AIFS_HORIZON", "12h")
	if _, err := getEnvInt("AIFS_HORIZON", 360); err == nil {
		t.Error("getEnvInt() expected error for non-numeric value")
	}
}
