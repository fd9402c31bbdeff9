package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	apperrors "github.com/anime-shed/image-diagnostics-go/internal/errors"
	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

// blobDownloader is the part of *azblob.Client the fetcher needs
type blobDownloader interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// AzureBlobFetcher reads images from an Azure storage account. Sources are either
// "container/path/to/blob.png" or a full blob URL on the configured account.
type AzureBlobFetcher struct {
	client    blobDownloader
	account   string
	validator *validation.URLValidator
	pixelLimit
}

// NewAzureBlobFetcher authenticates with a shared key
func NewAzureBlobFetcher(accountName string, accountKey string) (*AzureBlobFetcher, error) {
	if accountName == "" || accountKey == "" {
		return nil, errors.New("azure storage account and key are required")
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return newAzureBlobFetcher(client, accountName), nil
}

func newAzureBlobFetcher(client blobDownloader, accountName string) *AzureBlobFetcher {
	host := fmt.Sprintf("%s.blob.core.windows.net", strings.ToLower(accountName))
	return &AzureBlobFetcher{
		client:    client,
		account:   accountName,
		validator: validation.NewURLValidatorWithOptions([]string{"https"}, []string{host}),
	}
}

func (s *AzureBlobFetcher) Name() string { return "azure" }

func (s *AzureBlobFetcher) ValidateSource(source string) error {
	_, _, err := s.parseSource(source)
	return err
}

func (s *AzureBlobFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	containerName, blobName, err := s.parseSource(source)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrSourceNotFound, containerName, blobName)
		}
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	return s.decodeBody(resp.Body)
}

// parseSource splits a source into container and blob name
func (s *AzureBlobFetcher) parseSource(source string) (string, string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", "", apperrors.NewValidationError("blob source cannot be empty", nil)
	}

	path := source
	if strings.Contains(source, "://") {
		parsed, err := s.validator.Validate(source)
		if err != nil {
			return "", "", err
		}
		if path, err = url.PathUnescape(parsed.EscapedPath()); err != nil {
			return "", "", apperrors.NewValidationError("Invalid blob path", err)
		}
	}

	containerName, blobName, ok := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !ok || containerName == "" || blobName == "" {
		return "", "", apperrors.NewValidationError("blob source must be <container>/<blob>", nil)
	}
	return containerName, blobName, nil
}
