package config

import "time"

// Common constants shared between daemon and client
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "vesync"

	// DaemonConfigFilename is the base filename for daemon config
	DaemonConfigFilename = "vesyncd.yaml"

	// ClientConfigFilename is the base filename for client config
	ClientConfigFilename = "vesyncctl.yaml"

	// SocketFilename is the base filename for the Unix socket
	SocketFilename = "vesyncd.sock"

	// CredentialsFilename is the base filename for the stored cloud session
	CredentialsFilename = "credentials.json"

	// DefaultAPIListenAddress is the default HTTP API listen address
	DefaultAPIListenAddress = ":9124"
)

// Default timeouts and intervals
const (
	// DefaultSyncInterval is the default interval between cloud device syncs
	DefaultSyncInterval = 60 * time.Second

	// MinSyncInterval is the minimum allowed sync interval; the cloud
	// throttles accounts that poll faster than this
	MinSyncInterval = 10 * time.Second

	// DefaultAPITimeout is the default cloud request timeout
	DefaultAPITimeout = 8 * time.Second

	// DefaultRateLimitRPM is the default per-IP HTTP API request budget
	DefaultRateLimitRPM = 120
)

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)
