package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config is the tool configuration.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Firmware FirmwareConfig `mapstructure:"firmware"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// OutputConfig controls where generated files are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
	// OverwriteCustom replaces existing custom.hal and friends.
	OverwriteCustom bool `mapstructure:"overwrite_custom"`
}

// FirmwareConfig lists directories holding custom firmware descriptors.
type FirmwareConfig struct {
	CustomDirs []string `mapstructure:"custom_dirs"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// Load reads the configuration from file, if one is found, and HALCONF_
// environment variables. An empty path searches for halconf.yaml in the
// working directory and in $HOME/.config/halconf.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("halconf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", "halconf"))
	}

	v.SetEnvPrefix("HALCONF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// defaults always decode
	_ = v.Unmarshal(&config)

	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "./out")
	v.SetDefault("output.overwrite_custom", false)
	v.SetDefault("firmware.custom_dirs", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)
}

func validate(config *Config) error {
	if config.Output.Dir == "" {
		return errors.New("output.dir is required")
	}

	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if !slices.Contains(validFormats, config.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %v", validFormats)
	}

	if config.Logging.Output == "" {
		return errors.New("logging.output is required")
	}

	if config.Logging.MaxSize < 0 || config.Logging.MaxBackups < 0 || config.Logging.MaxAge < 0 {
		return errors.New("logging rotation limits must not be negative")
	}

	return nil
}
