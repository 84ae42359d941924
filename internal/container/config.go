// Package container provides dependency injection and lifecycle management
// for the inspection billing system following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	Database      DatabaseConfig
	Lark          LarkConfig
	OpenAI        OpenAIConfig
	Billing       BillingConfig
	Notifications NotificationConfig
	Worker        WorkerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file, or database.MemoryPath
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string
}

// LarkConfig holds Lark messaging settings.
type LarkConfig struct {
	// Enabled switches between Lark delivery and log-only delivery
	Enabled bool

	AppID     string
	AppSecret string

	// RoleChats maps a workflow role to the Lark chat that receives its messages
	RoleChats map[string]string
}

// OpenAIConfig holds settings for scanned page transcription.
type OpenAIConfig struct {
	Enabled bool
	APIKey  string

	// Model must accept image input (e.g., "gpt-4o")
	Model string

	// PromptsPath is an optional YAML file overriding the default prompts
	PromptsPath string

	// MaxOCRPages caps how many text-less PDF pages are transcribed
	MaxOCRPages int
}

// BillingConfig holds invoice settings.
type BillingConfig struct {
	TaxRate         decimal.Decimal
	Currency        string
	NumberPrefix    string
	PaymentTermDays int
}

// NotificationConfig holds notification delivery settings.
type NotificationConfig struct {
	// MaxAttempts bounds delivery retries of a failed notification
	MaxAttempts int
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	Enabled bool

	OverduePollInterval time.Duration
	OverdueBatchSize    int

	RetryPollInterval time.Duration
	RetryBatchSize    int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/inspection.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Lark: LarkConfig{
			RoleChats: map[string]string{},
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o",
			MaxOCRPages: 5,
		},
		Billing: BillingConfig{
			TaxRate:         decimal.Zero,
			Currency:        "USD",
			NumberPrefix:    "INV",
			PaymentTermDays: 30,
		},
		Notifications: NotificationConfig{
			MaxAttempts: 3,
		},
		Worker: WorkerConfig{
			Enabled:             true,
			OverduePollInterval: time.Hour,
			OverdueBatchSize:    100,
			RetryPollInterval:   5 * time.Minute,
			RetryBatchSize:      50,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Lark.Enabled {
		if c.Lark.AppID == "" {
			return fmt.Errorf("lark.app_id is required when lark is enabled")
		}
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required when lark is enabled")
		}
	}

	if c.OpenAI.Enabled && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required when openai is enabled")
	}

	if c.Billing.TaxRate.IsNegative() {
		return fmt.Errorf("billing.tax_rate must not be negative")
	}
	if c.Billing.PaymentTermDays < 0 {
		return fmt.Errorf("billing.payment_term_days must not be negative")
	}

	if c.Worker.Enabled {
		if c.Worker.OverduePollInterval <= 0 {
			return fmt.Errorf("worker.overdue_poll_interval must be positive")
		}
		if c.Worker.RetryPollInterval <= 0 {
			return fmt.Errorf("worker.retry_poll_interval must be positive")
		}
	}

	return nil
}
