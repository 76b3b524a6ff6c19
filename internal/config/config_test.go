package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Store:    StorePostgres,
		Database: DatabaseConfig{URL: "postgres://localhost/shifts"},
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

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.SeriesDefaults.RRule = "FREQ=WEEKLY;BYDAY=SA"

	assert.NoError(t, Validate(cfg))
}

func TestValidate_MemoryStoreNeedsNoDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Store = StoreMemory
	cfg.Database.URL = ""

	assert.NoError(t, Validate(cfg))
}

func TestValidate_PostgresStoreNeedsDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""

	err := Validate(cfg)
	assert.ErrorContains(t, err, "database.url")
}

func TestValidate_UnknownStore(t *testing.T) {
	cfg := validConfig()
	cfg.Store = "sqlite"

	err := Validate(cfg)
	assert.ErrorContains(t, err, "validation failed")
}

func TestValidate_GeneratorDefaultsMustBePositive(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.DefaultCapacity = 0

	err := Validate(cfg)
	assert.ErrorContains(t, err, "validation failed")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := validConfig()
	cfg.SeriesDefaults.RRule = "INVALID_RRULE_SYNTAX"

	err := Validate(cfg)
	assert.ErrorContains(t, err, "invalid rrule")
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvJWTSecret, "")

	path := writeFile(t, "shifts_config.yaml", `
store: memory
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.HTTP.SignupRatePerMinute)
	assert.Equal(t, 120, cfg.Generator.DefaultDurationMinutes)
	assert.Equal(t, 5, cfg.Generator.DefaultCapacity)
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvJWTSecret, "")

	path := writeFile(t, "shifts_config.yaml", `
store: postgres
database:
  url: postgres://shifts@localhost/shifts
  pollInterval: 500ms
http:
  addr: ":9000"
  allowedOrigins:
    - https://club.example.org
  signupRatePerMinute: 3
generator:
  defaultDurationMinutes: 90
  defaultCapacity: 4
roster:
  spreadsheetID: sheet123
seriesDefaults:
  rrule: FREQ=WEEKLY;BYDAY=SA
  title: Saturday practice
  startTime: "09:00"
  endTime: "13:00"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://shifts@localhost/shifts", cfg.Database.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.PollInterval)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://club.example.org"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 3, cfg.HTTP.SignupRatePerMinute)
	assert.Equal(t, 90, cfg.Generator.DefaultDurationMinutes)
	assert.Equal(t, 4, cfg.Generator.DefaultCapacity)
	assert.Equal(t, "sheet123", cfg.Roster.SpreadsheetID)
	assert.Equal(t, "Saturday practice", cfg.SeriesDefaults.Title)
}

func TestLoadFromPath_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://from-env/shifts")
	t.Setenv(EnvJWTSecret, "s3cret")

	path := writeFile(t, "shifts_config.yaml", `
store: postgres
database:
  url: postgres://from-file/shifts
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://from-env/shifts", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeFile(t, "shifts_config.yaml", "store: [memory")

	_, err := LoadFromPath(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadWithEnv_UsesEnvSuffixedFile(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shifts_config.test.yaml"), []byte("store: memory\n"), 0644))
	t.Chdir(dir)

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv("nowhere")
	assert.ErrorContains(t, err, "shifts_config.nowhere.yaml not found")
}
