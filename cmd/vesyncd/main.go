package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/vesyncd/internal/config"
	"github.com/jmylchreest/vesyncd/internal/events"
	"github.com/jmylchreest/vesyncd/internal/logging"
	"github.com/jmylchreest/vesyncd/internal/server"
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Set up Viper for configuration
	v := viper.New()
	v.SetEnvPrefix("VESYNC")
	v.AutomaticEnv()

	// Set up command line flags
	pflag.String("log-level", "", "Log level (debug, info, warn, error)")
	pflag.String("log-format", "", "Log format (text, json)")
	pflag.String("config", "", "Path to config file")
	pflag.Int("sync-interval", 0, "Cloud sync interval in seconds")
	pflag.Parse()

	// Bind flags to Viper - this ensures flags take precedence
	v.BindPFlag("logging.level", pflag.Lookup("log-level"))
	v.BindPFlag("logging.format", pflag.Lookup("log-format"))
	v.BindPFlag("sync.interval", pflag.Lookup("sync-interval"))

	// Load configuration
	cfg, err := config.Load(config.DaemonConfigFilename, v.GetString("config"))
	if err != nil {
		logger := logging.SetupErrorLogger()
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override config file values when set
	if lvl := v.GetString("logging.level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if format := v.GetString("logging.format"); format != "" {
		cfg.Logging.Format = format
	}
	if interval := v.GetInt("sync.interval"); interval > 0 {
		cfg.Sync.IntervalSeconds = config.ValidateSyncInterval(interval)
	}

	logger := logging.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	logging.SetAsDefaultLogger(logger)

	logger.Info("Starting vesyncd",
		"version", version,
		"commit", commit,
		"buildDate", buildDate,
	)

	bus := events.NewBus()

	clientOpts := []vesync.ClientOption{vesync.WithTimeZone(cfg.API.TimeZone)}
	if cfg.API.BaseURL != "" {
		clientOpts = append(clientOpts, vesync.WithBaseURL(cfg.API.BaseURL))
	}
	apiClient := vesync.NewClient(logger, clientOpts...)

	manager := vesync.NewManager(apiClient, logger,
		vesync.WithEventBus(bus),
		vesync.WithCredentialsPath(cfg.Account.CredentialsFile),
	)

	loginCtx, loginCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	if err := manager.Login(loginCtx, cfg.Account.Username, cfg.Account.Password); err != nil {
		logger.Error("Cloud login failed; run 'vesyncctl login' or set account credentials", "error", err)
		loginCancel()
		os.Exit(1)
	}
	loginCancel()

	srv := server.New(logger, cfg, manager, bus, version)

	// React to config file edits without a restart. Only the log level is
	// safe to change live; everything else needs a daemon restart.
	cfg.OnChange(func(next *config.Config) {
		logger.Info("Configuration file changed", "level", next.Logging.Level)
		logging.SetLevel(next.Logging.Level)
	})

	if err := srv.Start(); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")

	srv.Stop()
}
