package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the CLI.
// Priority: env vars > config file > defaults.
type Config struct {
	Store        string        `yaml:"store" validate:"oneof=memory redis libsql"`
	DBPath       string        `yaml:"db_path"`
	RedisAddr    string        `yaml:"redis_addr"`
	LogLevel     string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string        `yaml:"log_format" validate:"oneof=text json"`
	TickInterval time.Duration `yaml:"tick_interval" validate:"gt=0"`
	MetricsAddr  string        `yaml:"metrics_addr"`
}

func defaultConfig() Config {
	return Config{
		Store:        "memory",
		DBPath:       "file:fabula.db",
		RedisAddr:    "localhost:6379",
		LogLevel:     "info",
		LogFormat:    "text",
		TickInterval: 100 * time.Millisecond,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("FABULA_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("FABULA_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FABULA_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("FABULA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FABULA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("FABULA_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("FABULA_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse FABULA_TICK_INTERVAL: %w", err)
		}
		cfg.TickInterval = d
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
