package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(DaemonConfigFilename, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIListenAddress, cfg.HTTP.ListenAddress)
	assert.Equal(t, DefaultRateLimitRPM, cfg.HTTP.RateLimitRPM)
	assert.Equal(t, int(DefaultSyncInterval.Seconds()), cfg.Sync.IntervalSeconds)
	assert.Equal(t, int(DefaultAPITimeout.Seconds()), cfg.API.TimeoutSeconds)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Server.UnixSocket)
	assert.NotEmpty(t, cfg.Account.CredentialsFile)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vesyncd.yaml")
	content := `
account:
  username: user@example.com
api:
  time_zone: Europe/London
sync:
  interval: 300
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(DaemonConfigFilename, path)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", cfg.Account.Username)
	assert.Equal(t, "Europe/London", cfg.API.TimeZone)
	assert.Equal(t, 300, cfg.Sync.IntervalSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestSyncIntervalClamped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vesyncd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  interval: 1\n"), 0o644))

	cfg, err := Load(DaemonConfigFilename, path)
	require.NoError(t, err)
	assert.Equal(t, int(MinSyncInterval.Seconds()), cfg.Sync.IntervalSeconds)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VESYNC_LOGGING_LEVEL", "warn")

	cfg, err := Load(DaemonConfigFilename, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(DaemonConfigFilename, "")
	require.NoError(t, err)

	cfg.Account.Username = "saved@example.com"
	cfg.Logging.Level = "error"
	require.NoError(t, cfg.Save(DaemonConfigFilename))

	reloaded, err := Load(DaemonConfigFilename, "")
	require.NoError(t, err)
	assert.Equal(t, "saved@example.com", reloaded.Account.Username)
	assert.Equal(t, "error", reloaded.Logging.Level)
}

func TestValidateSyncInterval(t *testing.T) {
	min := int(MinSyncInterval.Seconds())
	assert.Equal(t, min, ValidateSyncInterval(0))
	assert.Equal(t, min, ValidateSyncInterval(min-1))
	assert.Equal(t, 600, ValidateSyncInterval(600))
}
