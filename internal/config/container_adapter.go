package config

import (
	"github.com/foundationpro/inspection-billing/internal/container"
	api "github.com/foundationpro/inspection-billing/internal/interfaces/http"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure. The config must have
// passed Validate.
func (c *Config) ToContainerConfig() *container.Config {
	taxRate, _ := c.Billing.TaxRateDecimal()

	roleChats := make(map[string]string, len(c.Lark.RoleChats))
	for role, chat := range c.Lark.RoleChats {
		roleChats[role] = chat
	}

	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Lark: container.LarkConfig{
			Enabled:   c.Lark.Enabled,
			AppID:     c.Lark.AppID,
			AppSecret: c.Lark.AppSecret,
			RoleChats: roleChats,
		},
		OpenAI: container.OpenAIConfig{
			Enabled:     c.OpenAI.Enabled,
			APIKey:      c.OpenAI.APIKey,
			Model:       c.OpenAI.Model,
			PromptsPath: c.OpenAI.PromptsPath,
			MaxOCRPages: c.OpenAI.MaxOCRPages,
		},
		Billing: container.BillingConfig{
			TaxRate:         taxRate,
			Currency:        c.Billing.Currency,
			NumberPrefix:    c.Billing.NumberPrefix,
			PaymentTermDays: c.Billing.PaymentTermDays,
		},
		Notifications: container.NotificationConfig{
			MaxAttempts: c.Notifications.MaxAttempts,
		},
		Worker: container.WorkerConfig{
			Enabled:             c.Worker.Enabled,
			OverduePollInterval: c.Worker.OverduePollInterval,
			OverdueBatchSize:    c.Worker.OverdueBatchSize,
			RetryPollInterval:   c.Worker.RetryPollInterval,
			RetryBatchSize:      c.Worker.RetryBatchSize,
		},
	}
}

// ToServerConfig converts the server section to the HTTP server's config
func (c *Config) ToServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Host:           c.Server.Host,
		Port:           c.Server.Port,
		ReadTimeout:    c.Server.ReadTimeout,
		WriteTimeout:   c.Server.WriteTimeout,
		MaxUploadBytes: c.Server.MaxUploadBytes,
	}
}
