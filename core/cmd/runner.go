// Package cmd runs the service: configuration loading, bootstrap, the webhook
// server lifecycle, and signal-aware shutdown.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/dvaldes/warouter/core/bootstrap"
	coreconfig "github.com/dvaldes/warouter/core/config"
	"github.com/dvaldes/warouter/core/dispatch"
	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/router"
	"github.com/dvaldes/warouter/core/server"
)

// Options describe how to load configuration, bootstrap infrastructure, and
// customize the dispatch agents before serving.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig     func(path string) (*coreconfig.Config, error)
	Bootstrap      func(cfg *coreconfig.Config) (*bootstrap.Result, error)
	RegisterAgents func(d *dispatch.Dispatcher)
	ShutdownLogger func() error
}

// Run loads configuration, bootstraps the store, and serves webhooks until a
// termination signal arrives.
func Run(opts Options) error {
	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		return fmt.Errorf("cmd: config path not provided via %s or DefaultConfigPath", env)
	}

	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = coreconfig.Load
	}
	log.Printf("loading config: %s", cfgPath)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	boot := opts.Bootstrap
	if boot == nil {
		boot = func(cfg *coreconfig.Config) (*bootstrap.Result, error) {
			return bootstrap.Run(bootstrap.Options{Config: cfg})
		}
	}

	startedAt := time.Now()
	res, err := boot(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}
	defer res.Close()

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	engine := router.NewEngine(res.Store, cfg.SessionTTL())
	disp := dispatch.NewDispatcher()
	if opts.RegisterAgents != nil {
		opts.RegisterAgents(disp)
	} else {
		disp.RegisterDefaults()
	}
	srv := server.New(cfg.Server, engine, disp, res.Store)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Listen, cfg.Server.Port)
	}()

	logger.L.With("component", "app").Info("app ready",
		slog.String("event", "ready"),
		slog.String("store", cfg.Session.Store),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("cmd: server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.L.With("component", "app").Info("shutting down...",
		slog.String("event", "shutdown"),
	)
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("cmd: shutdown failed: %w", err)
	}
	return nil
}
