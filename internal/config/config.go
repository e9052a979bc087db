// Package config loads ledger configuration from environment variables,
// an optional .env file and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendGCS    = "gcs"
)

// Config represents the application configuration.
type Config struct {
	User      string `yaml:"user"`
	KeyPrefix string `yaml:"key_prefix"`
	Timezone  string `yaml:"timezone"`
	LogLevel  string `yaml:"log_level"`

	Storage     StorageConfig     `yaml:"storage"`
	Validation  ValidationConfig  `yaml:"validation"`
	Materialize MaterializeConfig `yaml:"materialize"`
	BigQuery    BigQueryConfig    `yaml:"bigquery"`

	// Location is resolved from Timezone by Load.
	Location *time.Location `yaml:"-"`
}

// StorageConfig selects where ledger snapshots live.
type StorageConfig struct {
	Backend        string `yaml:"backend"`
	BoltPath       string `yaml:"bolt_path"`
	SQLitePath     string `yaml:"sqlite_path"`
	GCSBucket      string `yaml:"gcs_bucket"`
	GCSFolder      string `yaml:"gcs_folder"`
	GCSCredentials string `yaml:"gcs_credentials"`
	SaveRetries    int    `yaml:"save_retries"`
}

// ValidationConfig holds the advisory warning thresholds.
type ValidationConfig struct {
	LargeAmount     float64       `yaml:"large_amount"`
	DuplicateWindow time.Duration `yaml:"duplicate_window"`
}

// MaterializeConfig controls the recurring materializer.
type MaterializeConfig struct {
	Mode string `yaml:"mode"`
}

// BigQueryConfig names the export destination for range reports.
type BigQueryConfig struct {
	Project     string `yaml:"project"`
	Dataset     string `yaml:"dataset"`
	Table       string `yaml:"table"`
	Credentials string `yaml:"credentials"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		KeyPrefix: "SavedTransactions_",
		LogLevel:  "info",
		Storage: StorageConfig{
			Backend:     BackendBolt,
			BoltPath:    "ledger.db",
			SQLitePath:  "ledger.sqlite",
			GCSFolder:   "ledgers",
			SaveRetries: 3,
		},
		Validation: ValidationConfig{
			LargeAmount:     5000,
			DuplicateWindow: 24 * time.Hour,
		},
		Materialize: MaterializeConfig{Mode: "interval"},
		BigQuery: BigQueryConfig{
			Dataset: "ledger",
			Table:   "transactions",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// LEDGER_CONFIG_FILE, then environment variables. A .env file in the
// current directory is loaded first if present; envPath overrides its location.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()

	if path := os.Getenv("LEDGER_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	loc, err := resolveLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.User = getEnvOrDefault("LEDGER_USER", c.User)
	c.KeyPrefix = getEnvOrDefault("LEDGER_KEY_PREFIX", c.KeyPrefix)
	c.Timezone = getEnvOrDefault("LEDGER_TIMEZONE", c.Timezone)
	c.LogLevel = getEnvOrDefault("LEDGER_LOG_LEVEL", c.LogLevel)

	c.Storage.Backend = strings.ToLower(getEnvOrDefault("LEDGER_BACKEND", c.Storage.Backend))
	c.Storage.BoltPath = getEnvOrDefault("LEDGER_BOLT_PATH", c.Storage.BoltPath)
	c.Storage.SQLitePath = getEnvOrDefault("LEDGER_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.GCSBucket = getEnvOrDefault("LEDGER_GCS_BUCKET", c.Storage.GCSBucket)
	c.Storage.GCSFolder = getEnvOrDefault("LEDGER_GCS_FOLDER", c.Storage.GCSFolder)
	c.Storage.GCSCredentials = getEnvOrDefault("LEDGER_GCS_CREDENTIALS", c.Storage.GCSCredentials)

	retries, err := parseIntEnv("LEDGER_SAVE_RETRIES", c.Storage.SaveRetries)
	if err != nil {
		return err
	}
	c.Storage.SaveRetries = retries

	large, err := parseFloatEnv("LEDGER_LARGE_AMOUNT", c.Validation.LargeAmount)
	if err != nil {
		return err
	}
	c.Validation.LargeAmount = large

	window, err := parseDurationEnv("LEDGER_DUPLICATE_WINDOW", c.Validation.DuplicateWindow)
	if err != nil {
		return err
	}
	c.Validation.DuplicateWindow = window

	c.Materialize.Mode = getEnvOrDefault("LEDGER_MATERIALIZE_MODE", c.Materialize.Mode)

	c.BigQuery.Project = getEnvOrDefault("LEDGER_BQ_PROJECT", c.BigQuery.Project)
	c.BigQuery.Dataset = getEnvOrDefault("LEDGER_BQ_DATASET", c.BigQuery.Dataset)
	c.BigQuery.Table = getEnvOrDefault("LEDGER_BQ_TABLE", c.BigQuery.Table)
	c.BigQuery.Credentials = getEnvOrDefault("LEDGER_BQ_CREDENTIALS", c.BigQuery.Credentials)
	return nil
}

// Validate reports settings the selected backend needs but does not have.
func (c *Config) Validate() error {
	var missing []string

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendBolt:
		if c.Storage.BoltPath == "" {
			missing = append(missing, "LEDGER_BOLT_PATH")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			missing = append(missing, "LEDGER_SQLITE_PATH")
		}
	case BackendGCS:
		if c.Storage.GCSBucket == "" {
			missing = append(missing, "LEDGER_GCS_BUCKET")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want memory, bolt, sqlite or gcs)", c.Storage.Backend)
	}

	if c.Storage.SaveRetries < 0 {
		return fmt.Errorf("LEDGER_SAVE_RETRIES must not be negative, got %d", c.Storage.SaveRetries)
	}
	if c.Validation.LargeAmount <= 0 {
		return fmt.Errorf("LEDGER_LARGE_AMOUNT must be positive, got %v", c.Validation.LargeAmount)
	}
	if c.Validation.DuplicateWindow <= 0 {
		return fmt.Errorf("LEDGER_DUPLICATE_WINDOW must be positive, got %s", c.Validation.DuplicateWindow)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// ValidateBigQuery reports missing export settings.
func (c *Config) ValidateBigQuery() error {
	var missing []string
	if c.BigQuery.Project == "" {
		missing = append(missing, "LEDGER_BQ_PROJECT")
	}
	if c.BigQuery.Dataset == "" {
		missing = append(missing, "LEDGER_BQ_DATASET")
	}
	if c.BigQuery.Table == "" {
		missing = append(missing, "LEDGER_BQ_TABLE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	return nil
}

func resolveLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number value for %s: %s", key, value)
	}
	return parsed, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return parsed, nil
}
