package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate checks that the configuration is usable.
func (c *Server) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("addr", c.Addr, validAddr),
		criterio.Run("log_level", c.LogLevel, oneOf(logLevels)),
		criterio.Run("log_format", c.LogFormat, oneOf(logFormats)),
		criterio.Run("shutdown_timeout", c.ShutdownTimeout, positive),
		criterio.Run("request_timeout", c.RequestTimeout, positive),
		criterio.Run("tx_timeout", c.TxTimeout, positive),
		c.RateLimit.validate(),
		criterio.Run("activity.buffer", c.Activity.Buffer, nonNegative),
		criterio.Run("activity.retain", c.Activity.Retain, atLeast(1)),
		c.Redis.validate(),
		c.Kafka.validate(),
	)
}

func (r RateLimitConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	return criterio.ValidateStruct(
		criterio.Run("rate_limit.read_limit", r.ReadLimit, atLeast(1)),
		criterio.Run("rate_limit.write_limit", r.WriteLimit, atLeast(1)),
		criterio.Run("rate_limit.window", r.Window, positive),
	)
}

func (r RedisConfig) validate() error {
	if r.URL == "" {
		return nil
	}
	return criterio.ValidateStruct(
		criterio.Run("redis.url", r.URL, redisURL),
		criterio.Run("redis.pool_size", r.PoolSize, atLeast(1)),
	)
}

func (k KafkaConfig) validate() error {
	if !k.Enabled() {
		return nil
	}
	var errs criterio.FieldErrorsBuilder
	for i, broker := range k.Brokers {
		if _, _, err := net.SplitHostPort(broker); err != nil {
			errs = errs.Append(fmt.Sprintf("kafka.brokers[%d]", i), fmt.Errorf("must be host:port: %w", err))
		}
	}
	if strings.TrimSpace(k.Topic) == "" {
		errs = errs.Append("kafka.topic", fmt.Errorf("is required when brokers are set"))
	}
	return errs.ToError()
}

func validAddr(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("must be host:port: %w", err)
	}
	return nil
}

func redisURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return fmt.Errorf("scheme must be redis or rediss")
	}
	return nil
}

func oneOf(allowed []string) func(string) error {
	return func(v string) error {
		if !slices.Contains(allowed, strings.ToLower(v)) {
			return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

func positive(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func nonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func atLeast(minValue int) func(int) error {
	return func(n int) error {
		if n < minValue {
			return fmt.Errorf("must be at least %d", minValue)
		}
		return nil
	}
}
