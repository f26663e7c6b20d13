package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keyfix/internal/config"
	"keyfix/internal/corrector"
	"keyfix/internal/customdict"
	"keyfix/pkg/options"
)

var (
	// Configuration file path.
	cfgFile string
	// Configuration loaded in PersistentPreRunE.
	globalConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "keyfix",
	Short: "Hebrew/English keyboard layout fixer and text analyzer",
	Long: `keyfix repairs text typed with the wrong keyboard layout active
(Hebrew typed on the English layout and the reverse), detects the language
of a text and ranks the operations that would improve it.

Examples:
  keyfix fix akuo
  echo "יקךךם" | keyfix fix
  keyfix analyze --format text "hello world!!!"
  keyfix batch --input lines.txt --op cleanup
  keyfix serve --port 8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewLoader(nil).Load(cfgFile)
		if err != nil {
			return err
		}
		globalConfig = cfg
		setupLogging(cmd.ErrOrStderr(), cfg)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is search in ., $XDG_CONFIG_HOME/keyfix, /etc/keyfix)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("layout", "", "keyboard layout YAML file (default is the built-in SI-1452 layout)")
	rootCmd.PersistentFlags().StringSlice("lexicon", nil, "extra word-list files")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("layout.path", rootCmd.PersistentFlags().Lookup("layout"))
	_ = viper.BindPFlag("lexicon.paths", rootCmd.PersistentFlags().Lookup("lexicon"))
}

func setupLogging(w io.Writer, cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.LogFormat == "text" {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

// GetConfig returns the configuration of the running command.
func GetConfig() *config.Config {
	if globalConfig == nil {
		d := config.DefaultConfig()
		return &d
	}
	return globalConfig
}

func newRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// loadCustomWords reads the user dictionary when redis is enabled. An
// unreachable store only costs the custom words.
func loadCustomWords(ctx context.Context, cfg *config.Config) []string {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := newRedisClient(cfg)
	defer client.Close()

	words, err := customdict.New(client, cfg.Redis.Key).All(ctx)
	if err != nil {
		slog.Warn("custom dictionary unavailable", "addr", cfg.Redis.Addr, "error", err)
		return nil
	}
	return words
}

// newEngine builds an engine from the loaded configuration.
func newEngine(ctx context.Context, cfg *config.Config) (*corrector.Engine, error) {
	opts := append(cfg.EngineOptions(),
		options.WithExtraWords(loadCustomWords(ctx, cfg)...),
		options.WithLogger(slog.Default()),
	)
	e, err := corrector.NewEngine(cfg.EngineConfig(), opts...)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return e, nil
}

// inputText joins the arguments, or reads stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
