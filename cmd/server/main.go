// Command server is the standalone custom dictionary admin service. It edits
// the redis word set that keyfix instances load, without serving the text
// endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"keyfix/internal/config"
	"keyfix/internal/customdict"
	"keyfix/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(viper.New()).Load(os.Getenv("KEYFIX_CONFIG"))
	if err != nil {
		logger.Error("init error", "error", err)
		os.Exit(1)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	dict := customdict.New(client, cfg.Redis.Key)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := dict.Ping(ctx); err != nil {
		logger.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err)
	}

	srv, err := server.NewServer(server.Config{
		CORSOrigin:   cfg.Server.CORSOrigin,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Store:        dict,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("init error", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	srv.SetupAdminRoutes(mux)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", httpServer.Addr, "key", dict.Key())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
