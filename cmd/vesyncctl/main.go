package main

import (
	"context"
	"os"

	"github.com/spf13/viper"

	"github.com/jmylchreest/vesyncd/cmd/vesyncctl/commands"
	"github.com/jmylchreest/vesyncd/internal/config"
	"github.com/jmylchreest/vesyncd/internal/logging"
	"github.com/jmylchreest/vesyncd/pkg/client"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Load configuration first
	cfg, err := config.Load(config.ClientConfigFilename, "")
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger := logging.SetupErrorLogger()
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
		// If file not found, use defaults
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:  config.LogLevelInfo,
				Format: config.LogFormatText,
			},
		}
	}

	rootCmd := commands.NewRootCommand(nil, version, commit, buildDate)

	// Flags override the config file
	if logLevel, _ := rootCmd.PersistentFlags().GetString("log-level"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat, _ := rootCmd.PersistentFlags().GetString("log-format"); logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger := logging.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	logging.SetAsDefaultLogger(logger)

	socket := config.GetRuntimeSocketPath()
	if cfg.Server.UnixSocket != "" {
		socket = cfg.Server.UnixSocket
	}
	if socketFlag, _ := rootCmd.PersistentFlags().GetString("socket"); socketFlag != "" {
		socket = socketFlag
	}

	apiClient := client.New(logger, socket)

	ctx := context.WithValue(context.Background(), commands.LoggerContextKey, logger)
	ctx = context.WithValue(ctx, commands.ClientContextKey, apiClient)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
