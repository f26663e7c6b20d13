package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keyfix/internal/corrector"
	"keyfix/internal/customdict"
	"keyfix/internal/server"
	"keyfix/pkg/options"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket API",
	Long: `Start an HTTP server that exposes the engine.

The server provides the following endpoints:
  POST   /api/v1/fix                Repair a keyboard layout mistake
  POST   /api/v1/analyze            Language verdict and ranked operations
  POST   /api/v1/clean              Text cleanup
  POST   /api/v1/batch              Apply one operation to many texts
  GET    /api/v1/custom-word        List custom words
  POST   /api/v1/custom-word        Add a custom word
  DELETE /api/v1/custom-word/{word} Remove a custom word
  GET    /ws                        Realtime fix/analyze/clean
  GET    /health                    Health check
  GET    /metrics                   Prometheus metrics

Examples:
  keyfix serve
  keyfix serve --port 8080 --redis
  keyfix serve --lexicon extra.txt --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		var store server.WordStore
		if cfg.Redis.Enabled {
			client := newRedisClient(cfg)
			defer client.Close()
			dict := customdict.New(client, cfg.Redis.Key)
			if err := dict.Ping(cmd.Context()); err != nil {
				slog.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err)
			}
			store = dict
		}

		build := func(words []string) (*corrector.Engine, error) {
			opts := append(cfg.EngineOptions(),
				options.WithExtraWords(words...),
				options.WithLogger(slog.Default()),
			)
			return corrector.NewEngine(cfg.EngineConfig(), opts...)
		}

		srv, err := server.NewServer(server.Config{
			CORSOrigin:    cfg.Server.CORSOrigin,
			MaxBodyBytes:  cfg.Server.MaxBodyBytes,
			BatchWorkers:  cfg.Server.BatchWorkers,
			MaxBatchItems: cfg.Server.MaxBatchItems,
			Build:         build,
			Store:         store,
			Logger:        slog.Default(),
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Lexicon.Watch {
			if err := srv.WatchLexicon(ctx, cfg.Lexicon.Paths); err != nil {
				return err
			}
		}

		httpServer := &http.Server{
			Addr:         cfg.ListenAddr(),
			Handler:      srv.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("starting server", "addr", httpServer.Addr, "redis", cfg.Redis.Enabled, "watch", cfg.Lexicon.Watch)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			slog.Info("shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "host to bind")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("addr", "", "listen address, overrides host and port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origin")
	serveCmd.Flags().Bool("redis", false, "load and edit custom words in redis")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "redis address")
	serveCmd.Flags().Bool("watch", false, "reload when lexicon files change")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.cors_origin", serveCmd.Flags().Lookup("cors-origin"))
	_ = viper.BindPFlag("redis.enabled", serveCmd.Flags().Lookup("redis"))
	_ = viper.BindPFlag("redis.addr", serveCmd.Flags().Lookup("redis-addr"))
	_ = viper.BindPFlag("lexicon.watch", serveCmd.Flags().Lookup("watch"))

	rootCmd.AddCommand(serveCmd)
}
