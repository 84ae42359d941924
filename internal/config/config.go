package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Lark          LarkConfig         `mapstructure:"lark"`
	OpenAI        OpenAIConfig       `mapstructure:"openai"`
	Billing       BillingConfig      `mapstructure:"billing"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Worker        WorkerConfig       `mapstructure:"worker"`
	Logger        LoggerConfig       `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"` // empty uses the embedded migrations
}

// LarkConfig holds Lark API configuration
type LarkConfig struct {
	Enabled   bool              `mapstructure:"enabled"`
	AppID     string            `mapstructure:"app_id"`
	AppSecret string            `mapstructure:"app_secret"`
	RoleChats map[string]string `mapstructure:"role_chats"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	PromptsPath string `mapstructure:"prompts_path"`
	MaxOCRPages int    `mapstructure:"max_ocr_pages"`
}

// BillingConfig holds invoice configuration
type BillingConfig struct {
	TaxRate         string `mapstructure:"tax_rate"` // decimal fraction, e.g. "0.0825"
	Currency        string `mapstructure:"currency"`
	NumberPrefix    string `mapstructure:"number_prefix"`
	PaymentTermDays int    `mapstructure:"payment_term_days"`
}

// NotificationConfig holds notification delivery configuration
type NotificationConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	OverduePollInterval time.Duration `mapstructure:"overdue_poll_interval"`
	OverdueBatchSize    int           `mapstructure:"overdue_batch_size"`
	RetryPollInterval   time.Duration `mapstructure:"retry_poll_interval"`
	RetryBatchSize      int           `mapstructure:"retry_batch_size"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. A missing file is not an error. Variables already set are
// left untouched.
func LoadEnvFile(path string) error {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from file and environment variables.
// An empty configPath uses defaults and the environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", 20<<20)

	// Database defaults
	v.SetDefault("database.path", "data/inspection.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrations_dir", "")

	// Lark defaults
	v.SetDefault("lark.enabled", false)
	v.SetDefault("lark.role_chats", map[string]string{})

	// OpenAI defaults
	v.SetDefault("openai.enabled", false)
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.prompts_path", "")
	v.SetDefault("openai.max_ocr_pages", 5)

	// Billing defaults
	v.SetDefault("billing.tax_rate", "0")
	v.SetDefault("billing.currency", "USD")
	v.SetDefault("billing.number_prefix", "INV")
	v.SetDefault("billing.payment_term_days", 30)

	v.SetDefault("notifications.max_attempts", 3)

	// Worker defaults
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.overdue_poll_interval", time.Hour)
	v.SetDefault("worker.overdue_batch_size", 100)
	v.SetDefault("worker.retry_poll_interval", 5*time.Minute)
	v.SetDefault("worker.retry_batch_size", 50)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) error {
	// Sensitive credentials from environment
	bindings := map[string]string{
		"lark.app_id":     "LARK_APP_ID",
		"lark.app_secret": "LARK_APP_SECRET",
		"openai.api_key":  "OPENAI_API_KEY",
		"database.path":   "DATABASE_PATH",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// TaxRateDecimal parses the configured tax rate
func (b BillingConfig) TaxRateDecimal() (decimal.Decimal, error) {
	if strings.TrimSpace(b.TaxRate) == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(b.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("billing.tax_rate %q is not a decimal: %w", b.TaxRate, err)
	}
	return rate, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Credentials are only required for enabled integrations
	if c.Lark.Enabled {
		if c.Lark.AppID == "" {
			return fmt.Errorf("lark.app_id is required")
		}
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required")
		}
	}
	if c.OpenAI.Enabled && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}

	rate, err := c.Billing.TaxRateDecimal()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("billing.tax_rate must be in [0, 1)")
	}
	if c.Billing.PaymentTermDays < 0 {
		return fmt.Errorf("billing.payment_term_days must not be negative")
	}

	if c.Worker.Enabled && (c.Worker.OverduePollInterval <= 0 || c.Worker.RetryPollInterval <= 0) {
		return fmt.Errorf("worker poll intervals must be positive")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console")
	}

	return nil
}
