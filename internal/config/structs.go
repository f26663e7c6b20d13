//nolint:lll
package config

import "time"

// Config represents the complete configuration for keyfix. It covers the
// CLI, the HTTP service and the engine tuning, and loads from a config
// file, environment variables and command-line flags.
type Config struct {
	// Global settings
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Server     ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Redis      RedisConfig     `mapstructure:"redis" yaml:"redis" json:"redis"`
	Lexicon    LexiconConfig   `mapstructure:"lexicon" yaml:"lexicon" json:"lexicon"`
	Layout     LayoutConfig    `mapstructure:"layout" yaml:"layout" json:"layout"`
	Thresholds ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds" json:"thresholds"`
}

// ServerConfig contains HTTP service settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host" json:"host"`
	Port            int           `mapstructure:"port" yaml:"port" json:"port"`
	Addr            string        `mapstructure:"addr" yaml:"addr" json:"addr"` // overrides host and port
	CORSOrigin      string        `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
	BatchWorkers    int           `mapstructure:"batch_workers" yaml:"batch_workers" json:"batch_workers"`
	MaxBatchItems   int           `mapstructure:"max_batch_items" yaml:"max_batch_items" json:"max_batch_items"`
}

// RedisConfig points at the custom dictionary store.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Addr     string `mapstructure:"addr" yaml:"addr" json:"addr"`
	Password string `mapstructure:"password" yaml:"password" json:"-"`
	DB       int    `mapstructure:"db" yaml:"db" json:"db"`
	Key      string `mapstructure:"key" yaml:"key" json:"key"`
}

// LexiconConfig lists extra word files.
type LexiconConfig struct {
	Paths []string `mapstructure:"paths" yaml:"paths" json:"paths"`
	Watch bool     `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// LayoutConfig selects a keyboard layout file; empty means the built-in one.
type LayoutConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// ThresholdConfig holds the activation threshold of each suggestion.
type ThresholdConfig struct {
	LayoutFix   float64 `mapstructure:"layout_fix" yaml:"layout_fix" json:"layout_fix"`
	Cleanup     float64 `mapstructure:"cleanup" yaml:"cleanup" json:"cleanup"`
	Enhancement float64 `mapstructure:"enhancement" yaml:"enhancement" json:"enhancement"`
	Grammar     float64 `mapstructure:"grammar" yaml:"grammar" json:"grammar"`
	Translation float64 `mapstructure:"translation" yaml:"translation" json:"translation"`
}
