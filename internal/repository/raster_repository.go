package repository

import (
	"context"

	"github.com/anime-shed/image-diagnostics-go/internal/analyzer"
	"github.com/anime-shed/image-diagnostics-go/internal/raster"
	"github.com/anime-shed/image-diagnostics-go/internal/storage"
)

// FetcherRasterRepository implements RasterRepository on top of an image fetcher
type FetcherRasterRepository struct {
	fetcher storage.ImageFetcher
}

// NewRasterRepository creates a raster repository backed by fetcher
func NewRasterRepository(fetcher storage.ImageFetcher) RasterRepository {
	return &FetcherRasterRepository{fetcher: fetcher}
}

func (r *FetcherRasterRepository) LoadRaster(ctx context.Context, source string) (*analyzer.Raster, error) {
	img, err := r.fetcher.FetchImage(ctx, source)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}

func (r *FetcherRasterRepository) ValidateSource(source string) error {
	return r.fetcher.ValidateSource(source)
}

func (r *FetcherRasterRepository) Backend() string {
	return r.fetcher.Name()
}
