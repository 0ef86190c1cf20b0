package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

// Config represents the Reflex tooling configuration
type Config struct {
	Format FormatConfig `mapstructure:"format"`
	Decode DecodeConfig `mapstructure:"decode"`
	Output OutputConfig `mapstructure:"output"`
}

// FormatConfig controls how streams are re-emitted
type FormatConfig struct {
	Compact bool `mapstructure:"compact"`
}

// DecodeConfig bounds stream reconstruction
type DecodeConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// OutputConfig controls terminal output
type OutputConfig struct {
	Color bool `mapstructure:"color"`
}

// Load loads the configuration from reflex.yml or reflex.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("format.compact", false)
	v.SetDefault("decode.max_depth", rtti.DefaultMaxDepth)
	v.SetDefault("output.color", true)

	// Set config name and paths
	v.SetConfigName("reflex")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Decode.MaxDepth < 1 {
		return fmt.Errorf("decode.max_depth must be at least 1, got %d", config.Decode.MaxDepth)
	}
	return nil
}
