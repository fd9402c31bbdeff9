package repository

import (
	"context"
	"time"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

// RasterRepository loads image sources as float rasters
type RasterRepository interface {
	// LoadRaster fetches and decodes source and converts it to a raster
	LoadRaster(ctx context.Context, source string) (*analyzer.Raster, error)

	// ValidateSource checks source without fetching it
	ValidateSource(source string) error

	// Backend names the storage backend in use
	Backend() string
}

// ReportRepository stores finished diagnostics by ID
type ReportRepository interface {
	Save(ctx context.Context, record *ReportRecord) (string, error)
	Get(ctx context.Context, id string) (*ReportRecord, error)
	Len() int
}

// ReportRecord is a diagnostics report plus the request context it came from
type ReportRecord struct {
	ID             string
	Source         string
	CreatedAt      time.Time
	ProcessingTime time.Duration
	Report         analyzer.DiagnosticsReport
	Issues         []validation.Issue
}
