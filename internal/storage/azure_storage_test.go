package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "github.com/anime-shed/image-diagnostics-go/internal/errors"
)

type fakeDownloader struct {
	data      []byte
	err       error
	container string
	blob      string
}

func (f *fakeDownloader) DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error) {
	f.container = containerName
	f.blob = blobName
	var resp azblob.DownloadStreamResponse
	if f.err != nil {
		return resp, f.err
	}
	resp.Body = io.NopCloser(bytes.NewReader(f.data))
	return resp, nil
}

func TestAzureBlobFetcher_ParseSource(t *testing.T) {
	fetcher := newAzureBlobFetcher(&fakeDownloader{}, "renders")

	tests := []struct {
		name          string
		source        string
		wantContainer string
		wantBlob      string
		wantErr       bool
	}{
		{"container and blob", "frames/shot01/0001.png", "frames", "shot01/0001.png", false},
		{"leading slash", "/frames/0001.png", "frames", "0001.png", false},
		{"blob URL", "https://renders.blob.core.windows.net/frames/a%20b.png", "frames", "a b.png", false},
		{"foreign account", "https://other.blob.core.windows.net/frames/a.png", "", "", true},
		{"plain http", "http://renders.blob.core.windows.net/frames/a.png", "", "", true},
		{"container only", "frames", "", "", true},
		{"empty", "  ", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, blob, err := fetcher.parseSource(tt.source)
			if tt.wantErr {
				if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
					t.Errorf("Expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if container != tt.wantContainer || blob != tt.wantBlob {
				t.Errorf("Expected %s/%s, got %s/%s", tt.wantContainer, tt.wantBlob, container, blob)
			}
		})
	}
}

func TestAzureBlobFetcher_FetchImage(t *testing.T) {
	downloader := &fakeDownloader{data: encodeTestPNG(t, 3, 5)}
	fetcher := newAzureBlobFetcher(downloader, "renders")

	img, err := fetcher.FetchImage(context.Background(), "frames/0001.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 5 {
		t.Errorf("Expected 3x5 image, got %v", img.Bounds())
	}
	if downloader.container != "frames" || downloader.blob != "0001.png" {
		t.Errorf("Downloaded wrong blob: %s/%s", downloader.container, downloader.blob)
	}
}

func TestAzureBlobFetcher_NotFound(t *testing.T) {
	downloader := &fakeDownloader{err: &azcore.ResponseError{ErrorCode: "BlobNotFound", StatusCode: 404}}
	fetcher := newAzureBlobFetcher(downloader, "renders")

	_, err := fetcher.FetchImage(context.Background(), "frames/missing.png")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", err)
	}
}

func TestAzureBlobFetcher_DownloadFailure(t *testing.T) {
	downloader := &fakeDownloader{err: errors.New("connection reset")}
	fetcher := newAzureBlobFetcher(downloader, "renders")

	_, err := fetcher.FetchImage(context.Background(), "frames/a.png")
	if err == nil || errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Expected generic download error, got %v", err)
	}
}

func TestNewAzureBlobFetcher_RequiresCredentials(t *testing.T) {
	if _, err := NewAzureBlobFetcher("", ""); err == nil {
		t.Error("Expected error for missing credentials")
	}
}
