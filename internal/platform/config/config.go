// Package config resolves server configuration from defaults, an optional
// YAML file, and command-line flags (each backed by a TRIPLIST_* environment
// variable), in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	AllowedOrigin   string        `yaml:"allowed_origin"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	TxTimeout       time.Duration `yaml:"tx_timeout"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Activity  ActivityConfig  `yaml:"activity"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
}

// RateLimitConfig sets the per-client request budgets.
type RateLimitConfig struct {
	Enabled    bool          `yaml:"enabled"`
	ReadLimit  int           `yaml:"read_limit"`
	WriteLimit int           `yaml:"write_limit"`
	Window     time.Duration `yaml:"window"`
}

// ActivityConfig sizes the activity feed.
type ActivityConfig struct {
	// Buffer is the async publish queue; 0 publishes synchronously.
	Buffer int `yaml:"buffer"`
	// Retain is how many events the in-memory feed keeps.
	Retain int `yaml:"retain"`
}

// RedisConfig configures the optional Redis backend for rate limiting.
// An empty URL keeps rate limiting in memory.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig configures the optional Kafka activity sink. No brokers
// disables it.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

// Enabled reports whether a Kafka sink should be started.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Default returns the configuration used when nothing overrides it.
func Default() Server {
	return Server{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		AllowedOrigin:   "*",
		ShutdownTimeout: 10 * time.Second,
		RequestTimeout:  30 * time.Second,
		TxTimeout:       5 * time.Second,
		RateLimit: RateLimitConfig{
			Enabled:    true,
			ReadLimit:  100,
			WriteLimit: 50,
			Window:     time.Minute,
		},
		Activity: ActivityConfig{
			Buffer: 256,
			Retain: 1000,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:    "triplist.activity",
			ClientID: "triplist",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is empty; a named file that does not exist is.
func Load(path string) (*Server, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}
