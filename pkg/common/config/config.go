package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to upper-cased keys for environment overrides,
// e.g. WAMPCORE_ADDR or WAMPCORE_LOG_LEVEL.
const EnvPrefix = "WAMPCORE"

// LogConfig is the "log" section.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// Config represents the application configuration
type Config struct {
	Debug bool   `json:"debug" mapstructure:"debug"`
	Addr  string `json:"addr" mapstructure:"addr"`
	// Roles held by the local peer when checking frames, e.g. ["caller","callee"].
	Roles      []string  `json:"roles" mapstructure:"roles"`
	StrictURIs bool      `json:"strict_uris" mapstructure:"strict_uris"`
	Workers    int       `json:"workers" mapstructure:"workers"`
	DBName     string    `json:"db_name" mapstructure:"db_name"`
	RuntimeDir string    `json:"runtime_dir" mapstructure:"runtime_dir"`
	Log        LogConfig `json:"log" mapstructure:"log"`
	// Compression used for capture archives: gzip, zstd or none.
	Compression string `json:"compression" mapstructure:"compression"`
}

var appConfig *Config

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:       false,
		Addr:        ":8080",
		Roles:       []string{"caller", "callee", "publisher", "subscriber"},
		StrictURIs:  false,
		Workers:     8,
		DBName:      "wampcore.db",
		RuntimeDir:  ".runtime",
		Log:         LogConfig{Level: "info", Format: "console"},
		Compression: "gzip",
	}
}

func setDefaults() {
	d := Default()
	viper.SetDefault("debug", d.Debug)
	viper.SetDefault("addr", d.Addr)
	viper.SetDefault("roles", d.Roles)
	viper.SetDefault("strict_uris", d.StrictURIs)
	viper.SetDefault("workers", d.Workers)
	viper.SetDefault("db_name", d.DBName)
	viper.SetDefault("runtime_dir", d.RuntimeDir)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("compression", d.Compression)
}

// Load loads the configuration from config.json file
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	if configPath != "" {
		viper.AddConfigPath(configPath)
	} else {
		// Default paths to look for config file
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		// If config file doesn't exist, create a default one
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig(configPath)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return decode()
}

func decode() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	appConfig = &config
	return &config, nil
}

// createDefaultConfig writes config.json with the defaults (and any
// environment overrides) into dir.
func createDefaultConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}
	configFile := filepath.Join(dir, "config.json")
	if err := viper.SafeWriteConfigAs(configFile); err != nil {
		return nil, fmt.Errorf("error creating default config file: %w", err)
	}
	return decode()
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	switch c.Compression {
	case "gzip", "zstd", "none":
	default:
		return fmt.Errorf("config: unknown compression %q", c.Compression)
	}
	if c.DBName == "" {
		return fmt.Errorf("config: db_name must not be empty")
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if appConfig == nil {
		// Return default config if not loaded
		return Default()
	}
	return appConfig
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	return Get().Debug
}

// Reload reloads the configuration from file
func Reload() error {
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reloading config: %w", err)
	}
	if _, err := decode(); err != nil {
		return fmt.Errorf("error reloading config: %w", err)
	}
	return nil
}
