package config

import (
	"fmt"
	"net"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"keyfix/internal/corrector"
	"keyfix/internal/customdict"
	"keyfix/pkg/options"
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	th := corrector.DefaultConfig().Thresholds
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			CORSOrigin:      "*",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			BatchWorkers:    runtime.NumCPU(),
			MaxBatchItems:   1000,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			Key:  customdict.DefaultKey,
		},
		Thresholds: ThresholdConfig{
			LayoutFix:   th.LayoutFix,
			Cleanup:     th.Cleanup,
			Enhancement: th.Enhancement,
			Grammar:     th.Grammar,
			Translation: th.Translation,
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	validFormats := []string{"json", "text"}
	if !slices.Contains(validFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validFormats, ", "))
	}

	for name, v := range map[string]float64{
		"thresholds.layout_fix":  c.Thresholds.LayoutFix,
		"thresholds.cleanup":     c.Thresholds.Cleanup,
		"thresholds.enhancement": c.Thresholds.Enhancement,
		"thresholds.grammar":     c.Thresholds.Grammar,
		"thresholds.translation": c.Thresholds.Translation,
	} {
		if err := validateThreshold(v, name); err != nil {
			return err
		}
	}

	if c.Server.Addr != "" {
		if _, port, err := net.SplitHostPort(c.Server.Addr); err != nil || port == "" {
			return fmt.Errorf("invalid server addr: %q", c.Server.Addr)
		}
	} else if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body size: %d (must be positive)", c.Server.MaxBodyBytes)
	}
	if c.Server.BatchWorkers < 0 {
		return fmt.Errorf("invalid batch workers: %d (must not be negative)", c.Server.BatchWorkers)
	}
	if c.Server.MaxBatchItems <= 0 {
		return fmt.Errorf("invalid max batch items: %d (must be positive)", c.Server.MaxBatchItems)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis is enabled but redis.addr is empty")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
	}
	return nil
}

// ListenAddr is the address the HTTP server binds.
func (c *Config) ListenAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// EngineConfig converts the thresholds into engine tuning.
func (c *Config) EngineConfig() corrector.Config {
	ec := corrector.DefaultConfig()
	ec.Thresholds = corrector.Thresholds{
		LayoutFix:   c.Thresholds.LayoutFix,
		Cleanup:     c.Thresholds.Cleanup,
		Enhancement: c.Thresholds.Enhancement,
		Grammar:     c.Thresholds.Grammar,
		Translation: c.Thresholds.Translation,
	}
	return ec
}

// EngineOptions lists the data sources for engine construction.
func (c *Config) EngineOptions() []options.Options {
	var opts []options.Options
	if c.Layout.Path != "" {
		opts = append(opts, options.WithLayoutFile(c.Layout.Path))
	}
	if len(c.Lexicon.Paths) > 0 {
		opts = append(opts, options.WithLexiconFiles(c.Lexicon.Paths...))
	}
	if c.Server.BatchWorkers > 0 {
		opts = append(opts, options.WithWorkers(c.Server.BatchWorkers))
	}
	return opts
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}
