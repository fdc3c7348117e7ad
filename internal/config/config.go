package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Account AccountConfig
	API     APIConfig
	Server  ServerConfig
	HTTP    HTTPConfig
	Sync    SyncConfig
	Logging LoggingConfig

	// Internal viper instance
	v *viper.Viper
}

// AccountConfig identifies the cloud account
type AccountConfig struct {
	Username        string
	Password        string
	CredentialsFile string `mapstructure:"credentials_file"`
}

// APIConfig tunes the cloud API client
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout"`
	TimeZone       string `mapstructure:"time_zone"`
}

// ServerConfig represents the control socket configuration
type ServerConfig struct {
	UnixSocket string `mapstructure:"unix_socket"`
}

// HTTPConfig represents the REST API configuration
type HTTPConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
	RateLimitRPM  int    `mapstructure:"ratelimit_rpm"`
}

// SyncConfig controls the periodic cloud sync loop
type SyncConfig struct {
	IntervalSeconds int `mapstructure:"interval"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from a file and environment variables
func Load(configName, configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	// Set default values
	v.SetDefault("account.credentials_file", GetCredentialsPath())
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", int(DefaultAPITimeout.Seconds()))
	v.SetDefault("api.time_zone", "America/New_York")
	v.SetDefault("server.unix_socket", GetRuntimeSocketPath())
	v.SetDefault("http.listen_address", DefaultAPIListenAddress)
	v.SetDefault("http.ratelimit_rpm", DefaultRateLimitRPM)
	v.SetDefault("sync.interval", int(DefaultSyncInterval.Seconds()))
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)

	// Add config paths
	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Info("Using config file from command line", "path", configFile)
	} else {
		configPath := GetConfigPath(configName)
		v.SetConfigFile(configPath)

		// Create config directory if it doesn't exist
		if err := os.MkdirAll(GetConfigBaseDir(), 0755); err != nil {
			return nil, fmt.Errorf("error creating config directory: %w", err)
		}

		// Only log if config file exists
		if _, err := os.Stat(configPath); err == nil {
			slog.Info("Using default config file", "path", configPath)
		}
	}

	// Read config file - Viper will use defaults if file not found
	v.ReadInConfig()

	// Bind environment variables
	v.SetEnvPrefix("VESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Account: AccountConfig{
			Username:        v.GetString("account.username"),
			Password:        v.GetString("account.password"),
			CredentialsFile: v.GetString("account.credentials_file"),
		},
		API: APIConfig{
			BaseURL:        v.GetString("api.base_url"),
			TimeoutSeconds: v.GetInt("api.timeout"),
			TimeZone:       v.GetString("api.time_zone"),
		},
		Server: ServerConfig{
			UnixSocket: v.GetString("server.unix_socket"),
		},
		HTTP: HTTPConfig{
			ListenAddress: v.GetString("http.listen_address"),
			RateLimitRPM:  v.GetInt("http.ratelimit_rpm"),
		},
		Sync: SyncConfig{
			IntervalSeconds: ValidateSyncInterval(v.GetInt("sync.interval")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		v: v,
	}

	return cfg, nil
}

// Save saves the configuration to file
func (c *Config) Save(filename string) error {
	logger := slog.Default()
	configPath := GetConfigPath(filename)

	logger.Info("Saving configuration", "path", configPath)

	if err := os.MkdirAll(GetConfigBaseDir(), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	c.v.SetConfigFile(configPath)

	// Update viper with current values
	c.v.Set("account", c.Account)
	c.v.Set("api", c.API)
	c.v.Set("server", c.Server)
	c.v.Set("http", c.HTTP)
	c.v.Set("sync", c.Sync)
	c.v.Set("logging", c.Logging)

	// Write config - Viper will create the file if it doesn't exist
	if err := c.v.WriteConfig(); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	logger.Info("Configuration saved successfully", "path", configPath)
	return nil
}

// Get retrieves a value from the configuration
func (c *Config) Get(key string) interface{} {
	if c.v == nil {
		return nil
	}
	return c.v.Get(key)
}

// Set sets a value in the configuration
func (c *Config) Set(key string, value interface{}) {
	if c.v == nil {
		return
	}
	c.v.Set(key, value)
}

// OnChange registers a callback invoked when the config file changes on disk.
// Watching uses fsnotify under viper; the callback receives the re-read
// configuration.
func (c *Config) OnChange(fn func(*Config)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(_ fsnotify.Event) {
		fn(c.reload())
	})
	c.v.WatchConfig()
}

// reload rebuilds the typed view from the current viper state.
func (c *Config) reload() *Config {
	c.Account = AccountConfig{
		Username:        c.v.GetString("account.username"),
		Password:        c.v.GetString("account.password"),
		CredentialsFile: c.v.GetString("account.credentials_file"),
	}
	c.API = APIConfig{
		BaseURL:        c.v.GetString("api.base_url"),
		TimeoutSeconds: c.v.GetInt("api.timeout"),
		TimeZone:       c.v.GetString("api.time_zone"),
	}
	c.Server = ServerConfig{UnixSocket: c.v.GetString("server.unix_socket")}
	c.HTTP = HTTPConfig{
		ListenAddress: c.v.GetString("http.listen_address"),
		RateLimitRPM:  c.v.GetInt("http.ratelimit_rpm"),
	}
	c.Sync = SyncConfig{IntervalSeconds: ValidateSyncInterval(c.v.GetInt("sync.interval"))}
	c.Logging = LoggingConfig{
		Level:  c.v.GetString("logging.level"),
		Format: c.v.GetString("logging.format"),
	}
	return c
}
