package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	TariffRate    float64    `yaml:"tariff_rate,omitempty"`    // Cost per kWh (fallback: 7.00)
	HorizonDays   int        `yaml:"horizon_days,omitempty"`   // Default forecast horizon (fallback: 7)
	TestFraction  float64    `yaml:"test_fraction,omitempty"`  // Held-out share for training (fallback: 0.2)
	ModelDir      string     `yaml:"model_dir,omitempty"`      // Directory for model artifacts (fallback: models)
	TrainSeed     uint64     `yaml:"train_seed,omitempty"`     // Seed for reproducible training (fallback: 42)
	MQTT          MQTTConfig `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig   `yaml:"home_assistant,omitempty"`
}

// MQTTConfig holds MQTT broker configuration for forecast publishing
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "localhost:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default "energytracker"
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.energy_forecast"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetTariffRate returns the cost per kWh with a default of 7.00
func (c *Config) GetTariffRate() float64 {
	if c.TariffRate <= 0 {
		return 7.00
	}
	return c.TariffRate
}

// GetHorizonDays returns the default forecast horizon with a default of 7 days
func (c *Config) GetHorizonDays() int {
	if c.HorizonDays <= 0 {
		return 7
	}
	return c.HorizonDays
}

// GetTestFraction returns the training hold-out fraction with a default of 0.2
func (c *Config) GetTestFraction() float64 {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return 0.2
	}
	return c.TestFraction
}

// GetModelDir returns the model artifact directory with a default of "models"
func (c *Config) GetModelDir() string {
	if c.ModelDir == "" {
		return "models"
	}
	return c.ModelDir
}

// GetTrainSeed returns the training seed with a default of 42
func (c *Config) GetTrainSeed() uint64 {
	if c.TrainSeed == 0 {
		return 42
	}
	return c.TrainSeed
}
