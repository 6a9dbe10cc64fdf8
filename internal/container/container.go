package container

import (
	"context"
	"fmt"
	"net/http"

	"go-ecoscan/internal/cache"
	"go-ecoscan/internal/config"
	"go-ecoscan/internal/factory"
	"go-ecoscan/internal/logger"
	"go-ecoscan/internal/observer"
	"go-ecoscan/internal/repository"
	"go-ecoscan/internal/scoring"
	"go-ecoscan/internal/service"
	"go-ecoscan/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	scoreTable      repository.ScoreTable
	metrics         *observer.MetricsObserver
	analysisService service.AnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// Build dependency graph
	components := factory.NewComponentFactory(cfg)

	blobStore, err := components.StorageFactory.CreateBlobStore(ctx, factory.StorageType(cfg.StorageBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	extractor, err := components.ExtractorFactory.CreateExtractor(factory.ExtractorType(cfg.ExtractionBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to build text extractor: %w", err)
	}

	scoreTable, err := repository.NewSQLiteScoreTable(cfg.ScoreDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open score table: %w", err)
	}

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	analysisService := service.NewAnalysisService(
		blobStore,
		extractor,
		scoring.NewScorer(scoreTable),
		cache.NewResultCache(),
		publisher,
		cfg.UploadTimeout,
	)
	handler := transport.NewHandler(analysisService, cfg)

	return &Container{
		config:          cfg,
		scoreTable:      scoreTable,
		metrics:         metrics,
		analysisService: analysisService,
		handler:         handler,
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

// Metrics returns the pipeline metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases held resources
func (c *Container) Close() error {
	return c.scoreTable.Close()
}
