package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config represents the main configuration structure for the SearchGate CLI
type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// SearchConfig contains Google Custom Search credentials
type SearchConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	CX     string `yaml:"cx"`
}

// DefaultsConfig contains default values for CLI operations
type DefaultsConfig struct {
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	Region       string `yaml:"region"`
	GatewayName  string `mapstructure:"gateway_name" yaml:"gateway_name"`
}

var (
	cfg        *Config
	configFile string
)

// Init initializes the configuration system by creating the config directory
// and loading the config file
func Init() error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".searchgate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile = filepath.Join(configDir, "config.yaml")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	// Set defaults
	viper.SetDefault("defaults.output_format", "table")

	// Bind environment variables
	viper.SetEnvPrefix("SEARCHGATE")
	viper.AutomaticEnv()

	// Override with environment variables
	if err := viper.BindEnv("search.api_key", "GOOGLE_API_KEY"); err != nil {
		return fmt.Errorf("failed to bind search.api_key env: %w", err)
	}
	if err := viper.BindEnv("search.cx", "GOOGLE_CX"); err != nil {
		return fmt.Errorf("failed to bind search.cx env: %w", err)
	}
	if err := viper.BindEnv("defaults.region", "AWS_REGION"); err != nil {
		return fmt.Errorf("failed to bind defaults.region env: %w", err)
	}

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; create default config
		cfg = &Config{
			Defaults: DefaultsConfig{
				OutputFormat: "table",
			},
		}
		return SaveConfig()
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration, initializing it if necessary
func GetConfig() *Config {
	if cfg == nil {
		if err := Init(); err != nil {
			// Log the error but continue with default config
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
			cfg = &Config{Defaults: DefaultsConfig{OutputFormat: "table"}}
		}
	}
	return cfg
}

// SaveConfig saves the current configuration to disk
func SaveConfig() error {
	viper.Set("search", cfg.Search)
	viper.Set("defaults", cfg.Defaults)

	return viper.WriteConfigAs(configFile)
}

// SetOutputFormat updates the default output format and saves it
func SetOutputFormat(format string) error {
	cfg.Defaults.OutputFormat = format
	return SaveConfig()
}

// SetRegion updates the default region and saves it
func SetRegion(region string) error {
	cfg.Defaults.Region = region
	return SaveConfig()
}

// SetDefaultGateway updates the default gateway name and saves it
func SetDefaultGateway(name string) error {
	cfg.Defaults.GatewayName = name
	return SaveConfig()
}

// SetSearchCredentials updates the Google CSE credentials and saves them
func SetSearchCredentials(apiKey, cx string) error {
	if apiKey != "" {
		cfg.Search.APIKey = apiKey
	}
	if cx != "" {
		cfg.Search.CX = cx
	}
	return SaveConfig()
}
