package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/anime-shed/image-diagnostics-go/internal/errors"
)

// LocalFileFetcher reads images below a root directory
type LocalFileFetcher struct {
	root string
	pixelLimit
}

// NewLocalFileFetcher fails if root is not an existing directory
func NewLocalFileFetcher(root string) (*LocalFileFetcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid local root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid local root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local root %q is not a directory", root)
	}
	return &LocalFileFetcher{root: abs}, nil
}

func (l *LocalFileFetcher) Name() string { return "local" }

// ValidateSource accepts only relative paths that stay inside the root
func (l *LocalFileFetcher) ValidateSource(source string) error {
	_, err := l.resolve(source)
	return err
}

func (l *LocalFileFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	path, err := l.resolve(source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return l.decodeBody(f)
}

func (l *LocalFileFetcher) resolve(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", apperrors.NewValidationError("file path cannot be empty", nil)
	}
	rel := filepath.FromSlash(source)
	if !filepath.IsLocal(rel) {
		return "", apperrors.NewValidationError("file path escapes the image root", nil)
	}
	return filepath.Join(l.root, rel), nil
}
