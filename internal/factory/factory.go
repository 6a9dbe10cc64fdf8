package factory

import (
	"context"
	"fmt"

	"go-ecoscan/internal/config"
	"go-ecoscan/internal/extraction"
	"go-ecoscan/internal/storage"
)

// StorageType represents different types of blob storage backends
type StorageType string

const (
	// HTTPStorage for Supabase-style HTTP object storage
	HTTPStorage StorageType = "http"
	// S3Storage for S3-compatible object storage (AWS, R2, MinIO)
	S3Storage StorageType = "s3"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// ExtractorType represents different text extraction backends
type ExtractorType string

const (
	// RemoteExtractor uses the OpenAI-compatible chat completions provider
	RemoteExtractor ExtractorType = "remote"
	// LocalExtractor runs Tesseract on the host
	LocalExtractor ExtractorType = "local"
)

// StorageFactory creates blob store implementations
type StorageFactory interface {
	CreateBlobStore(ctx context.Context, storageType StorageType) (storage.BlobStore, error)
}

// ExtractorFactory creates text extractor implementations
type ExtractorFactory interface {
	CreateExtractor(extractorType ExtractorType) (extraction.TextExtractor, error)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateBlobStore creates a blob store based on the specified type
func (f *storageFactory) CreateBlobStore(ctx context.Context, storageType StorageType) (storage.BlobStore, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPBlobStore(f.cfg.StorageBaseURL, f.cfg.StorageAPIKey, f.cfg.StorageBucket), nil
	case S3Storage:
		return storage.NewS3BlobStore(ctx, storage.S3Options{
			Endpoint:  f.cfg.S3Endpoint,
			AccessKey: f.cfg.S3AccessKey,
			SecretKey: f.cfg.S3SecretKey,
			Bucket:    f.cfg.StorageBucket,
			BaseURL:   f.cfg.S3BaseURL,
		})
	case AzureStorage:
		return storage.NewAzureBlobStore(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.StorageBucket)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// extractorFactory implements ExtractorFactory
type extractorFactory struct {
	cfg *config.Config
}

// NewExtractorFactory creates a new extractor factory
func NewExtractorFactory(cfg *config.Config) ExtractorFactory {
	return &extractorFactory{cfg: cfg}
}

// CreateExtractor creates a text extractor based on the specified type
func (f *extractorFactory) CreateExtractor(extractorType ExtractorType) (extraction.TextExtractor, error) {
	switch extractorType {
	case RemoteExtractor:
		return extraction.NewChatClient(extraction.ChatOptions{
			APIKey:    f.cfg.GroqAPIKey,
			APIURL:    f.cfg.GroqAPIURL,
			Model:     f.cfg.GroqModel,
			MaxTokens: f.cfg.GroqMaxTokens,
			Timeout:   f.cfg.ExtractionTimeout,
		}), nil
	case LocalExtractor:
		return extraction.NewLocalExtractor(), nil
	default:
		return nil, fmt.Errorf("unsupported extractor type: %s", extractorType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory   StorageFactory
	ExtractorFactory ExtractorFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StorageFactory:   NewStorageFactory(cfg),
		ExtractorFactory: NewExtractorFactory(cfg),
	}
}
