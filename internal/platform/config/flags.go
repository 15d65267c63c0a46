package config

import (
	"fmt"

	"github.com/urfave/cli/v3"

	platformstrings "triplist/pkg/platform/strings"
)

// Flag names. Each flag also reads TRIPLIST_<NAME> from the environment.
const (
	FlagConfig          = "config"
	FlagAddr            = "addr"
	FlagLogLevel        = "log-level"
	FlagLogFormat       = "log-format"
	FlagAllowedOrigin   = "allowed-origin"
	FlagShutdownTimeout = "shutdown-timeout"
	FlagRequestTimeout  = "request-timeout"
	FlagRateLimit       = "rate-limit"
	FlagReadLimit       = "rate-limit-read"
	FlagWriteLimit      = "rate-limit-write"
	FlagActivityBuffer  = "activity-buffer"
	FlagRedisURL        = "redis-url"
	FlagKafkaBrokers    = "kafka-brokers"
	FlagKafkaTopic      = "kafka-topic"
)

// Flags returns the server flags with defaults taken from Default.
func Flags() []cli.Flag {
	d := Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagConfig,
			Aliases: []string{"c"},
			Usage:   "path to a YAML config file",
			Sources: cli.EnvVars("TRIPLIST_CONFIG"),
		},
		&cli.StringFlag{
			Name:    FlagAddr,
			Usage:   "HTTP listen address",
			Sources: cli.EnvVars("TRIPLIST_ADDR"),
			Value:   d.Addr,
		},
		&cli.StringFlag{
			Name:    FlagLogLevel,
			Usage:   "log level (debug, info, warn, error)",
			Sources: cli.EnvVars("TRIPLIST_LOG_LEVEL"),
			Value:   d.LogLevel,
		},
		&cli.StringFlag{
			Name:    FlagLogFormat,
			Usage:   "log format (json, text)",
			Sources: cli.EnvVars("TRIPLIST_LOG_FORMAT"),
			Value:   d.LogFormat,
		},
		&cli.StringFlag{
			Name:    FlagAllowedOrigin,
			Usage:   "CORS allowed origin",
			Sources: cli.EnvVars("TRIPLIST_ALLOWED_ORIGIN"),
			Value:   d.AllowedOrigin,
		},
		&cli.DurationFlag{
			Name:    FlagShutdownTimeout,
			Usage:   "graceful shutdown budget",
			Sources: cli.EnvVars("TRIPLIST_SHUTDOWN_TIMEOUT"),
			Value:   d.ShutdownTimeout,
		},
		&cli.DurationFlag{
			Name:    FlagRequestTimeout,
			Usage:   "per-request handler timeout",
			Sources: cli.EnvVars("TRIPLIST_REQUEST_TIMEOUT"),
			Value:   d.RequestTimeout,
		},
		&cli.BoolFlag{
			Name:    FlagRateLimit,
			Usage:   "enable per-client rate limiting",
			Sources: cli.EnvVars("TRIPLIST_RATE_LIMIT"),
			Value:   d.RateLimit.Enabled,
		},
		&cli.IntFlag{
			Name:    FlagReadLimit,
			Usage:   "read requests allowed per client per window",
			Sources: cli.EnvVars("TRIPLIST_RATE_LIMIT_READ"),
			Value:   d.RateLimit.ReadLimit,
		},
		&cli.IntFlag{
			Name:    FlagWriteLimit,
			Usage:   "write requests allowed per client per window",
			Sources: cli.EnvVars("TRIPLIST_RATE_LIMIT_WRITE"),
			Value:   d.RateLimit.WriteLimit,
		},
		&cli.IntFlag{
			Name:    FlagActivityBuffer,
			Usage:   "async activity queue size (0 publishes synchronously)",
			Sources: cli.EnvVars("TRIPLIST_ACTIVITY_BUFFER"),
			Value:   d.Activity.Buffer,
		},
		&cli.StringFlag{
			Name:    FlagRedisURL,
			Usage:   "Redis URL for shared rate limiting (empty keeps it in memory)",
			Sources: cli.EnvVars("TRIPLIST_REDIS_URL"),
		},
		&cli.StringSliceFlag{
			Name:    FlagKafkaBrokers,
			Usage:   "Kafka brokers for the activity sink (empty disables it)",
			Sources: cli.EnvVars("TRIPLIST_KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    FlagKafkaTopic,
			Usage:   "Kafka topic for activity events",
			Sources: cli.EnvVars("TRIPLIST_KAFKA_TOPIC"),
			Value:   d.Kafka.Topic,
		},
	}
}

// FromCommand loads the config file named by --config, applies every flag the
// caller set explicitly (directly or via its environment variable), and
// validates the result.
func FromCommand(c *cli.Command) (*Server, error) {
	cfg, err := Load(c.String(FlagConfig))
	if err != nil {
		return nil, err
	}

	if c.IsSet(FlagAddr) {
		cfg.Addr = c.String(FlagAddr)
	}
	if c.IsSet(FlagLogLevel) {
		cfg.LogLevel = c.String(FlagLogLevel)
	}
	if c.IsSet(FlagLogFormat) {
		cfg.LogFormat = c.String(FlagLogFormat)
	}
	if c.IsSet(FlagAllowedOrigin) {
		cfg.AllowedOrigin = c.String(FlagAllowedOrigin)
	}
	if c.IsSet(FlagShutdownTimeout) {
		cfg.ShutdownTimeout = c.Duration(FlagShutdownTimeout)
	}
	if c.IsSet(FlagRequestTimeout) {
		cfg.RequestTimeout = c.Duration(FlagRequestTimeout)
	}
	if c.IsSet(FlagRateLimit) {
		cfg.RateLimit.Enabled = c.Bool(FlagRateLimit)
	}
	if c.IsSet(FlagReadLimit) {
		cfg.RateLimit.ReadLimit = c.Int(FlagReadLimit)
	}
	if c.IsSet(FlagWriteLimit) {
		cfg.RateLimit.WriteLimit = c.Int(FlagWriteLimit)
	}
	if c.IsSet(FlagActivityBuffer) {
		cfg.Activity.Buffer = c.Int(FlagActivityBuffer)
	}
	if c.IsSet(FlagRedisURL) {
		cfg.Redis.URL = c.String(FlagRedisURL)
	}
	if c.IsSet(FlagKafkaBrokers) {
		cfg.Kafka.Brokers = c.StringSlice(FlagKafkaBrokers)
	}
	if c.IsSet(FlagKafkaTopic) {
		cfg.Kafka.Topic = c.String(FlagKafkaTopic)
	}
	cfg.Kafka.Brokers = platformstrings.DedupeAndTrim(cfg.Kafka.Brokers)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
