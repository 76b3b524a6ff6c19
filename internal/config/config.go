package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Environment variables that override or supply values not kept in the yaml file
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "SHIFTS_JWT_SECRET"
)

// DatabaseConfig holds the postgres connection settings
type DatabaseConfig struct {
	URL          string        `yaml:"url"`
	PollInterval time.Duration `yaml:"pollInterval" validate:"min=0"`
}

// HTTPConfig holds the API server settings
type HTTPConfig struct {
	Addr                string   `yaml:"addr" validate:"required"`
	AllowedOrigins      []string `yaml:"allowedOrigins,omitempty"`
	SignupRatePerMinute int      `yaml:"signupRatePerMinute" validate:"min=1"`
}

// GeneratorConfig holds the defaults used when splitting an event into shifts
type GeneratorConfig struct {
	DefaultDurationMinutes int `yaml:"defaultDurationMinutes" validate:"min=1"`
	DefaultCapacity        int `yaml:"defaultCapacity" validate:"min=1"`
}

// RosterConfig holds the Google Sheets roster export settings
type RosterConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
}

// SeriesDefaultsConfig holds defaults for recurring event series
type SeriesDefaultsConfig struct {
	RRule     string `yaml:"rrule,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Location  string `yaml:"location,omitempty"`
	StartTime string `yaml:"startTime,omitempty"`
	EndTime   string `yaml:"endTime,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Store          string               `yaml:"store" validate:"required,oneof=postgres memory"`
	Database       DatabaseConfig       `yaml:"database"`
	HTTP           HTTPConfig           `yaml:"http"`
	Generator      GeneratorConfig      `yaml:"generator"`
	Roster         RosterConfig         `yaml:"roster,omitempty"`
	SeriesDefaults SeriesDefaultsConfig `yaml:"seriesDefaults,omitempty"`

	// JWTSecret is read from SHIFTS_JWT_SECRET, never from the yaml file
	JWTSecret string `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from shifts_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "shifts_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Environment variables are applied after the file is parsed.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Store: StorePostgres,
		HTTP: HTTPConfig{
			Addr:                ":8080",
			SignupRatePerMinute: 10,
		},
		Generator: GeneratorConfig{
			DefaultDurationMinutes: 120,
			DefaultCapacity:        5,
		},
	}
}

func applyEnv(cfg *Config) {
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		cfg.Database.URL = url
	}
	cfg.JWTSecret = os.Getenv(EnvJWTSecret)
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Store == StorePostgres && cfg.Database.URL == "" {
		return fmt.Errorf("config validation failed: database.url or %s is required for the postgres store", EnvDatabaseURL)
	}

	if cfg.SeriesDefaults.RRule != "" {
		if _, err := rrule.StrToRRule(cfg.SeriesDefaults.RRule); err != nil {
			return fmt.Errorf("invalid rrule in seriesDefaults: %w", err)
		}
	}

	return nil
}

// findConfigFile returns the config file name for env, e.g. "shifts_config.test.yaml"
func findConfigFile(env string) (string, error) {
	if env == "" {
		return findFile("shifts_config.yaml")
	}
	return findFile("shifts_config." + env + ".yaml")
}

// findFile looks for fileName in the current directory, then in the user's home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
