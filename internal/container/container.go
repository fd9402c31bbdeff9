package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	"github.com/anime-shed/image-diagnostics-go/internal/config"
	"github.com/anime-shed/image-diagnostics-go/internal/factory"
	"github.com/anime-shed/image-diagnostics-go/internal/logger"
	"github.com/anime-shed/image-diagnostics-go/internal/observer"
	"github.com/anime-shed/image-diagnostics-go/internal/repository"
	"github.com/anime-shed/image-diagnostics-go/internal/service"
	"github.com/anime-shed/image-diagnostics-go/internal/transport"
	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	diagnostician analyzer.Diagnostician
	rasters       repository.RasterRepository
	reports       *repository.MemoryReportRepository
	metrics       *observer.MetricsObserver
	service       service.DiagnosticsService
	handler       http.Handler
}

// NewContainer builds the dependency graph for cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory()

	fetcher, err := components.StorageFactory.CreateStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s storage: %w", cfg.StorageBackend, err)
	}

	diagnostician := components.DiagnosticianFactory.CreateDiagnostician(cfg.MaxWorkers)
	rasters := repository.NewRasterRepository(fetcher)
	reports := repository.NewMemoryReportRepository(cfg.ReportCacheSize)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	defaults := analyzer.DefaultOptions().
		WithKernelSize(cfg.KernelSize).
		WithThresholds(cfg.SaturationThreshold, cfg.BorderThreshold)

	svc := service.NewDiagnosticsService(rasters, reports, diagnostician, validation.NewReportValidator(), events, service.Settings{
		Defaults:        defaults,
		AnalysisTimeout: cfg.AnalysisTimeout,
	})

	handler := transport.NewHandler(transport.Dependencies{
		Service: svc,
		Metrics: metrics,
		Reports: reports,
		Backend: fetcher.Name(),
	}, cfg)

	return &Container{
		config:        cfg,
		diagnostician: diagnostician,
		rasters:       rasters,
		reports:       reports,
		metrics:       metrics,
		service:       svc,
		handler:       handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the diagnostics service
func (c *Container) Service() service.DiagnosticsService {
	return c.service
}

// Close releases the analyzer worker pool
func (c *Container) Close() error {
	return c.diagnostician.Close()
}
