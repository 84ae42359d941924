package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/config"
	"github.com/foundationpro/inspection-billing/internal/container"
	api "github.com/foundationpro/inspection-billing/internal/interfaces/http"
	"github.com/foundationpro/inspection-billing/pkg/utils"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "inspection-billing",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.SyncLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		utils.SyncLogger(logger)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting inspection billing service",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path),
		zap.Bool("lark_enabled", cfg.Lark.Enabled),
		zap.Bool("openai_enabled", cfg.OpenAI.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close container", zap.Error(err))
		}
	}()

	services := c.Services()
	server := api.NewServer(cfg.ToServerConfig(), api.Services{
		Registry:      c.Registry(),
		Projects:      services.Project,
		Tasks:         services.Task,
		Deliverables:  services.Deliverable,
		Invoices:      services.Invoice,
		Status:        services.Status,
		Pricing:       services.Pricing,
		Notifications: services.Notification,
	}, c.ServiceLogger())

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}
