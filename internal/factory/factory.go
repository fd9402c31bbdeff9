package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	"github.com/anime-shed/image-diagnostics-go/internal/config"
	"github.com/anime-shed/image-diagnostics-go/internal/storage"
)

// StorageType names an image source backend
type StorageType string

const (
	// HTTPStorage fetches images over HTTP(S)
	HTTPStorage StorageType = "http"
	// AzureStorage reads blobs from an Azure storage account
	AzureStorage StorageType = "azure"
	// LocalStorage reads files below a root directory
	LocalStorage StorageType = "local"
)

// ParseStorageType normalizes a backend name
func ParseStorageType(name string) (StorageType, error) {
	switch t := StorageType(strings.ToLower(strings.TrimSpace(name))); t {
	case HTTPStorage, AzureStorage, LocalStorage:
		return t, nil
	case "":
		return HTTPStorage, nil
	default:
		return "", fmt.Errorf("unsupported storage type: %s", name)
	}
}

// DiagnosticianFactory creates analyzers
type DiagnosticianFactory interface {
	CreateDiagnostician(maxWorkers int) analyzer.Diagnostician
}

// StorageFactory creates image fetchers
type StorageFactory interface {
	CreateStorage(cfg *config.Config) (storage.ImageFetcher, error)
}

type diagnosticianFactory struct{}

// NewDiagnosticianFactory creates a new analyzer factory
func NewDiagnosticianFactory() DiagnosticianFactory {
	return &diagnosticianFactory{}
}

func (f *diagnosticianFactory) CreateDiagnostician(maxWorkers int) analyzer.Diagnostician {
	return analyzer.NewDiagnostician(maxWorkers)
}

type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage picks the backend named by cfg.StorageBackend and applies
// cfg.MaxImagePixels to it
func (f *storageFactory) CreateStorage(cfg *config.Config) (storage.ImageFetcher, error) {
	fetcher, err := f.createFetcher(cfg)
	if err != nil {
		return nil, err
	}
	if limiter, ok := fetcher.(storage.PixelLimiter); ok && cfg.MaxImagePixels > 0 {
		limiter.SetMaxPixels(cfg.MaxImagePixels)
	}
	return fetcher, nil
}

func (f *storageFactory) createFetcher(cfg *config.Config) (storage.ImageFetcher, error) {
	storageType, err := ParseStorageType(cfg.StorageBackend)
	if err != nil {
		return nil, err
	}

	switch storageType {
	case AzureStorage:
		return storage.NewAzureBlobFetcher(cfg.AzureStorageAccount, cfg.AzureStorageKey)
	case LocalStorage:
		return storage.NewLocalFileFetcher(cfg.LocalRoot)
	default:
		timeout := cfg.ImageFetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return storage.NewHTTPImageFetcher(timeout, nil), nil
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	DiagnosticianFactory DiagnosticianFactory
	StorageFactory       StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		DiagnosticianFactory: NewDiagnosticianFactory(),
		StorageFactory:       NewStorageFactory(),
	}
}
