package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"snack-counter/internal/models"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the snack counter
type Config struct {
	App      AppConfig         `yaml:"app"`
	Storage  StorageConfig     `yaml:"storage"`
	Receipt  ReceiptConfig     `yaml:"receipt"`
	Logging  LoggingConfig     `yaml:"logging"`
	Database DatabaseConfig    `yaml:"database"`
	RabbitMQ RabbitMQConfig    `yaml:"rabbitmq"`
	Catalog  []models.SnackDef `yaml:"catalog"`
}

// AppConfig holds display settings
type AppConfig struct {
	Currency string `yaml:"currency" env:"SNACK_CURRENCY"`
	Locale   string `yaml:"locale" env:"SNACK_LOCALE"`
}

// StorageConfig selects where orders are persisted
type StorageConfig struct {
	Backend    string `yaml:"backend" env:"SNACK_STORAGE_BACKEND"`
	OrdersPath string `yaml:"orders_path" env:"SNACK_ORDERS_PATH"`
	SQLitePath string `yaml:"sqlite_path" env:"SNACK_SQLITE_PATH"`
}

// ReceiptConfig holds the receipt log location
type ReceiptConfig struct {
	Path string `yaml:"path" env:"SNACK_RECEIPT_PATH"`
}

// LoggingConfig holds structured log settings
type LoggingConfig struct {
	Level  string `yaml:"level" env:"SNACK_LOG_LEVEL"`
	Output string `yaml:"output" env:"SNACK_LOG_OUTPUT"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"SNACK_DB_HOST"`
	Port     int    `yaml:"port" env:"SNACK_DB_PORT"`
	User     string `yaml:"user" env:"SNACK_DB_USER"`
	Password string `yaml:"password" env:"SNACK_DB_PASSWORD"`
	Database string `yaml:"database" env:"SNACK_DB_NAME"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled" env:"SNACK_RABBITMQ_ENABLED"`
	Host     string `yaml:"host" env:"SNACK_RABBITMQ_HOST"`
	Port     int    `yaml:"port" env:"SNACK_RABBITMQ_PORT"`
	User     string `yaml:"user" env:"SNACK_RABBITMQ_USER"`
	Password string `yaml:"password" env:"SNACK_RABBITMQ_PASSWORD"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		App: AppConfig{
			Currency: "TSh",
			Locale:   "en",
		},
		Storage: StorageConfig{
			Backend:    BackendJSON,
			OrdersPath: "orders.json",
			SQLitePath: "orders.db",
		},
		Receipt: ReceiptConfig{
			Path: "orders.txt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "snack-counter.log",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "snack",
			Password: "snack",
			Database: "snack_counter",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
	}
}

// Load reads configuration from a YAML file, then applies SNACK_* environment
// overrides. A missing file leaves the defaults in place.
func Load(filename string) (*Config, error) {
	config := Default()

	if strings.TrimSpace(filename) != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv overrides each section from the environment
func (c *Config) applyEnv() error {
	sections := []any{&c.App, &c.Storage, &c.Receipt, &c.Logging, &c.Database, &c.RabbitMQ}
	for _, section := range sections {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendJSON:
		if strings.TrimSpace(c.Storage.OrdersPath) == "" {
			return fmt.Errorf("storage.orders_path is required for the json backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("database.host and database.database are required for the postgres backend")
		}
		if c.Database.Port <= 0 {
			return fmt.Errorf("invalid database.port: %d", c.Database.Port)
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if strings.TrimSpace(c.Receipt.Path) == "" {
		return fmt.Errorf("receipt.path is required")
	}

	if c.RabbitMQ.Enabled && (c.RabbitMQ.Host == "" || c.RabbitMQ.Port <= 0) {
		return fmt.Errorf("rabbitmq.host and rabbitmq.port are required when rabbitmq is enabled")
	}

	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
