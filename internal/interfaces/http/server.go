// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foundationpro/inspection-billing/internal/application/service"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxUploadBytes: 20 << 20,
	}
}

// Services groups the application services the API exposes
type Services struct {
	Registry      *workflow.Registry
	Projects      service.ProjectService
	Tasks         service.TaskService
	Deliverables  service.DeliverableService
	Invoices      service.InvoiceService
	Status        service.StatusService
	Pricing       service.PricingService
	Notifications service.NotificationService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultServerConfig().MaxUploadBytes
	}

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config.MaxUploadBytes, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/workflows", h.ListWorkflows)
		api.GET("/workflows/:kind", h.GetWorkflow)

		api.POST("/projects", h.CreateProject)
		api.GET("/projects", h.ListProjects)
		api.GET("/projects/:id", h.GetProject)
		api.PUT("/projects/:id/products", h.SetProjectProducts)
		api.POST("/projects/:id/documents", h.UploadProjectDocument)
		api.GET("/projects/:id/services", h.GetProjectServices)
		api.POST("/projects/:id/status", h.ChangeStatus(workflow.KindProject))
		api.GET("/projects/:id/transitions", h.AvailableTransitions(workflow.KindProject))
		api.GET("/projects/:id/notifications", h.ListNotifications(workflow.KindProject))

		api.POST("/projects/:id/tasks", h.CreateTask)
		api.GET("/projects/:id/tasks", h.ListTasks)
		api.GET("/tasks/:id", h.GetTask)
		api.POST("/tasks/:id/status", h.ChangeStatus(workflow.KindTask))
		api.GET("/tasks/:id/transitions", h.AvailableTransitions(workflow.KindTask))

		api.POST("/projects/:id/deliverables", h.CreateDeliverable)
		api.GET("/projects/:id/deliverables", h.ListDeliverables)
		api.GET("/deliverables/:id", h.GetDeliverable)
		api.POST("/deliverables/:id/status", h.ChangeStatus(workflow.KindDeliverable))
		api.GET("/deliverables/:id/transitions", h.AvailableTransitions(workflow.KindDeliverable))

		api.POST("/projects/:id/invoices", h.CreateInvoice)
		api.GET("/projects/:id/invoices", h.ListInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.GET("/invoices/:id/export", h.ExportInvoice)
		api.POST("/invoices/:id/status", h.ChangeStatus(workflow.KindInvoice))
		api.GET("/invoices/:id/transitions", h.AvailableTransitions(workflow.KindInvoice))
		api.GET("/invoices/:id/notifications", h.ListNotifications(workflow.KindInvoice))

		api.POST("/pricing/services", h.CalculateServices)
		api.POST("/pricing/systems", h.DetectSystems)
		api.POST("/pricing/price", h.PriceService)
		api.POST("/pricing/quote", h.Quote)
		api.POST("/pricing/match", h.MatchProducts)
		api.GET("/catalog", h.GetCatalog)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
