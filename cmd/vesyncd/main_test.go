package main

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/vesyncd/internal/config"
	"github.com/jmylchreest/vesyncd/pkg/vesync"
)

func TestSetupFlagBindings(t *testing.T) {
	// Create a test command and viper instance
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()

	// Add flags
	cmd.PersistentFlags().String("log-level", "info", "Log level")
	cmd.PersistentFlags().String("log-format", "text", "Log format")
	cmd.PersistentFlags().String("config", "", "Config path")
	cmd.PersistentFlags().Int("sync-interval", 60, "Sync interval")

	// Bind flags (simulating what happens in main.go)
	v.SetEnvPrefix("VESYNC")
	v.AutomaticEnv()
	v.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	v.BindPFlag("sync.interval", cmd.PersistentFlags().Lookup("sync-interval"))
	v.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	// Test that flags are bound correctly
	assert.Equal(t, "info", v.GetString("logging.level"))
	assert.Equal(t, "text", v.GetString("logging.format"))
	assert.Equal(t, 60, v.GetInt("sync.interval"))
	assert.Equal(t, "", v.GetString("config"))
}

func TestCreateManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := vesync.NewClient(logger)
	manager := vesync.NewManager(client, logger)

	assert.NotNil(t, manager)
	assert.Empty(t, manager.Devices())
	assert.False(t, manager.Authenticated())
}

func TestCreateConfig(t *testing.T) {
	tempDir := t.TempDir()

	// Set environment to use temporary directory
	oldEnv := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tempDir)
	defer os.Setenv("XDG_CONFIG_HOME", oldEnv)

	// Attempt to load config (will use defaults since file doesn't exist)
	cfg, err := config.Load(config.DaemonConfigFilename, "")
	require.NoError(t, err)

	// Check default values
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, int(config.DefaultSyncInterval.Seconds()), cfg.Sync.IntervalSeconds)
}
