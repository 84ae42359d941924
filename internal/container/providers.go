package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/dispatcher"
	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/application/service"
	"github.com/foundationpro/inspection-billing/internal/domain/event"
	"github.com/foundationpro/inspection-billing/internal/domain/pricing"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/document"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/export"
	infraLark "github.com/foundationpro/inspection-billing/internal/infrastructure/external/lark"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/external/openai"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/persistence/repository"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/persistence/sqlite"
	"github.com/foundationpro/inspection-billing/internal/infrastructure/worker"
	"github.com/foundationpro/inspection-billing/migrations"
	"github.com/foundationpro/inspection-billing/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB        *database.DB
	TxManager *sqlite.TxManager
}

// AdapterBundle holds the outbound adapters the services depend on.
type AdapterBundle struct {
	Messenger port.RoleMessenger
	Reader    port.DocumentReader
	Exporter  port.InvoiceExporter
}

// ProvideDatabase opens the database and applies pending migrations.
// Migrations come from the embedded set unless MigrationsDir is configured.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrationsFS(migrations.FS)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:        db,
		TxManager: sqlite.NewTxManager(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Project:      repository.NewProjectRepository(db.DB, logger),
		Task:         repository.NewTaskRepository(db.DB, logger),
		Deliverable:  repository.NewDeliverableRepository(db.DB, logger),
		Invoice:      repository.NewInvoiceRepository(db.DB, logger),
		Notification: repository.NewNotificationRepository(db.DB, logger),
	}, nil
}

// ProvideMessenger returns the Lark role messenger, or a log-only messenger
// when Lark is disabled.
func ProvideMessenger(cfg *LarkConfig, logger *zap.Logger) (port.RoleMessenger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("lark config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if !cfg.Enabled {
		logger.Info("Lark disabled, notifications will only be logged")
		return infraLark.NewLogMessenger(logger), nil
	}

	client := infraLark.NewSDKClient(infraLark.Config{
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		RoleChats: cfg.RoleChats,
	}, logger)
	return infraLark.NewMessenger(client, cfg.RoleChats, logger), nil
}

// ProvideDocumentReader creates the document reader. Scanned pages are only
// transcribed when OpenAI is enabled.
func ProvideDocumentReader(cfg *OpenAIConfig, logger *zap.Logger) (port.DocumentReader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("openai config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	var transcriber port.PageTranscriber
	if cfg.Enabled {
		prompts := openai.DefaultPrompts()
		if cfg.PromptsPath != "" {
			loaded, err := openai.LoadPrompts(cfg.PromptsPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load prompts: %w", err)
			}
			prompts = loaded
		}
		transcriber = openai.NewTranscriber(cfg.APIKey, cfg.Model, prompts, logger)
	}

	return document.NewReader(transcriber, cfg.MaxOCRPages, logger), nil
}

// ProvideAdapters creates the outbound adapters.
func ProvideAdapters(cfg *Config, engine *pricing.Engine, logger *zap.Logger) (*AdapterBundle, error) {
	messenger, err := ProvideMessenger(&cfg.Lark, logger)
	if err != nil {
		return nil, err
	}

	reader, err := ProvideDocumentReader(&cfg.OpenAI, logger)
	if err != nil {
		return nil, err
	}

	return &AdapterBundle{
		Messenger: messenger,
		Reader:    reader,
		Exporter:  export.NewExcelExporter(engine.Catalog(), logger),
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(&dispatcherLoggerAdapter{logger: logger}),
	), nil
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Registry   *workflow.Registry
	Engine     *pricing.Engine
	Repos      *RepositoryBundle
	Adapters   *AdapterBundle
	TxManager  port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Billing    BillingConfig
	Notify     NotificationConfig
	Logger     *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("workflow registry is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("pricing engine is required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Adapters == nil {
		return nil, fmt.Errorf("adapters are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}
	repos := deps.Repos

	pricingService := service.NewPricingService(deps.Engine)
	statusService := service.NewStatusService(
		deps.Registry,
		map[workflow.Kind]port.StatusRepository{
			workflow.KindProject:     repos.Project,
			workflow.KindTask:        repos.Task,
			workflow.KindDeliverable: repos.Deliverable,
			workflow.KindInvoice:     repos.Invoice,
		},
		deps.Dispatcher,
		deps.TxManager,
		serviceLogger,
	)

	return &ServiceBundle{
		Pricing: pricingService,
		Status:  statusService,
		Project: service.NewProjectService(
			repos.Project,
			pricingService,
			deps.Adapters.Reader,
			deps.Dispatcher,
			deps.Registry,
			serviceLogger,
		),
		Task:        service.NewTaskService(repos.Task, repos.Project, deps.Registry, serviceLogger),
		Deliverable: service.NewDeliverableService(repos.Deliverable, repos.Project, deps.Registry, serviceLogger),
		Invoice: service.NewInvoiceService(
			repos.Invoice,
			repos.Project,
			pricingService,
			statusService,
			deps.Adapters.Exporter,
			deps.Dispatcher,
			deps.TxManager,
			deps.Registry,
			service.InvoiceConfig{
				TaxRate:         deps.Billing.TaxRate,
				Currency:        deps.Billing.Currency,
				NumberPrefix:    deps.Billing.NumberPrefix,
				PaymentTermDays: deps.Billing.PaymentTermDays,
			},
			serviceLogger,
		),
		Notification: service.NewNotificationService(
			deps.Registry,
			repos.Notification,
			deps.Adapters.Messenger,
			deps.Notify.MaxAttempts,
			serviceLogger,
		),
	}, nil
}

// RegisterHandlers subscribes the services that react to domain events.
// Invoice dates are stamped before notifications go out.
func RegisterHandlers(d dispatcher.Dispatcher, services *ServiceBundle) error {
	if d == nil {
		return fmt.Errorf("dispatcher is required")
	}
	if services == nil {
		return fmt.Errorf("services are required")
	}

	d.Subscribe(event.TypeStatusChanged, "invoice_dates", services.Invoice.HandleStatusChanged)
	d.Subscribe(event.TypeStatusChanged, "status_notifier", services.Notification.HandleStatusChanged)
	return nil
}

// ProvideWorkers creates and registers all background workers.
// Returns *worker.WorkerManager with all workers registered but not started.
func ProvideWorkers(cfg *WorkerConfig, services *ServiceBundle, logger *zap.Logger) (*worker.WorkerManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("worker config is required")
	}
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	manager := worker.NewWorkerManager(logger)

	manager.Register(worker.NewOverdueInvoiceWorker(worker.OverdueInvoiceWorkerConfig{
		PollInterval: cfg.OverduePollInterval,
		BatchSize:    cfg.OverdueBatchSize,
	}, services.Invoice, logger))

	manager.Register(worker.NewNotificationRetryWorker(worker.NotificationRetryWorkerConfig{
		PollInterval: cfg.RetryPollInterval,
		BatchSize:    cfg.RetryBatchSize,
	}, services.Notification, logger))

	return manager, nil
}
