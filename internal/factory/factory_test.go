package factory

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/anime-shed/image-diagnostics-go/internal/config"
	"github.com/anime-shed/image-diagnostics-go/internal/raster"
)

func TestParseStorageType(t *testing.T) {
	tests := []struct {
		in      string
		want    StorageType
		wantErr bool
	}{
		{"http", HTTPStorage, false},
		{" Azure ", AzureStorage, false},
		{"LOCAL", LocalStorage, false},
		{"", HTTPStorage, false},
		{"s3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStorageType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStorageType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStorageType(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCreateStorage(t *testing.T) {
	factory := NewComponentFactory().StorageFactory

	cfg := config.Defaults()
	fetcher, err := factory.CreateStorage(cfg)
	if err != nil {
		t.Fatalf("Unexpected error for http backend: %v", err)
	}
	if fetcher.Name() != "http" {
		t.Errorf("Expected http fetcher, got %s", fetcher.Name())
	}

	cfg.StorageBackend = "local"
	cfg.LocalRoot = t.TempDir()
	fetcher, err = factory.CreateStorage(cfg)
	if err != nil {
		t.Fatalf("Unexpected error for local backend: %v", err)
	}
	if fetcher.Name() != "local" {
		t.Errorf("Expected local fetcher, got %s", fetcher.Name())
	}

	cfg.StorageBackend = "azure"
	cfg.AzureStorageAccount = ""
	if _, err := factory.CreateStorage(cfg); err == nil {
		t.Error("Expected error for azure backend without credentials")
	}

	cfg.StorageBackend = "ftp"
	if _, err := factory.CreateStorage(cfg); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}

func TestCreateStorage_AppliesPixelLimit(t *testing.T) {
	root := t.TempDir()
	f, err := os.Create(filepath.Join(root, "wide.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 20, 10))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := config.Defaults()
	cfg.StorageBackend = "local"
	cfg.LocalRoot = root
	cfg.MaxImagePixels = 100

	fetcher, err := NewStorageFactory().CreateStorage(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := fetcher.FetchImage(context.Background(), "wide.png"); !errors.Is(err, raster.ErrTooManyPixels) {
		t.Errorf("Expected ErrTooManyPixels, got %v", err)
	}
}

func TestCreateDiagnostician(t *testing.T) {
	d := NewDiagnosticianFactory().CreateDiagnostician(2)
	if d == nil {
		t.Fatal("Expected non-nil diagnostician")
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}
