package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "keyfix"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "KEYFIX"
)

// legacyEnv maps config keys to the unprefixed variables the corrector
// service used to read. Prefixed names win.
var legacyEnv = map[string]string{
	"redis.addr":     "REDIS_ADDR",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",
	"server.addr":    "HTTP_ADDR",
	"lexicon.paths":  "DICTIONARY_PATH",
}

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on v. A nil v uses the global viper instance so
// that cobra flag bindings are seen.
func NewLoader(v *viper.Viper) *Loader {
	if v == nil {
		v = viper.GetViper()
	}
	return &Loader{v: v}
}

// Load reads configuration from the given file, or searches the standard
// paths when configFile is empty. A missing searched file is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		for _, p := range SearchPaths() {
			l.v.AddConfigPath(p)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if config.Verbose {
		config.LogLevel = "debug"
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Viper returns the underlying viper instance.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = l.v.BindEnv(key, prefixed, legacy)
	}
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("log_format", d.LogFormat)
	l.v.SetDefault("verbose", d.Verbose)

	l.v.SetDefault("server.host", d.Server.Host)
	l.v.SetDefault("server.port", d.Server.Port)
	l.v.SetDefault("server.addr", d.Server.Addr)
	l.v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	l.v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	l.v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	l.v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	l.v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	l.v.SetDefault("server.batch_workers", d.Server.BatchWorkers)
	l.v.SetDefault("server.max_batch_items", d.Server.MaxBatchItems)

	l.v.SetDefault("redis.enabled", d.Redis.Enabled)
	l.v.SetDefault("redis.addr", d.Redis.Addr)
	l.v.SetDefault("redis.password", d.Redis.Password)
	l.v.SetDefault("redis.db", d.Redis.DB)
	l.v.SetDefault("redis.key", d.Redis.Key)

	l.v.SetDefault("lexicon.paths", d.Lexicon.Paths)
	l.v.SetDefault("lexicon.watch", d.Lexicon.Watch)
	l.v.SetDefault("layout.path", d.Layout.Path)

	l.v.SetDefault("thresholds.layout_fix", d.Thresholds.LayoutFix)
	l.v.SetDefault("thresholds.cleanup", d.Thresholds.Cleanup)
	l.v.SetDefault("thresholds.enhancement", d.Thresholds.Enhancement)
	l.v.SetDefault("thresholds.grammar", d.Thresholds.Grammar)
	l.v.SetDefault("thresholds.translation", d.Thresholds.Translation)
}

// SearchPaths returns the directories searched for keyfix.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(configDir, "keyfix"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "keyfix"))
	}
	return append(paths, "/etc/keyfix")
}
