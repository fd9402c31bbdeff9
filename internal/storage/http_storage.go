package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/anime-shed/image-diagnostics-go/pkg/validation"
)

const (
	httpAttempts       = 3
	defaultHTTPTimeout = 30 * time.Second
)

// HTTPImageFetcher downloads images over HTTP(S) with a small retry budget
type HTTPImageFetcher struct {
	client    *http.Client
	validator *validation.URLValidator
	backoff   time.Duration
	pixelLimit
}

// NewHTTPImageFetcher creates an HTTP image fetcher. A zero timeout uses 30s and a
// nil validator accepts any http/https host.
func NewHTTPImageFetcher(timeout time.Duration, validator *validation.URLValidator) *HTTPImageFetcher {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if validator == nil {
		validator = validation.NewURLValidator()
	}

	transport := &http.Transport{
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		validator: validator,
		backoff:   time.Second,
	}
}

func (h *HTTPImageFetcher) Name() string { return "http" }

func (h *HTTPImageFetcher) ValidateSource(source string) error {
	_, err := h.validator.Validate(source)
	return err
}

// FetchImage retries transport errors and 5xx responses; 4xx responses fail immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	if err := h.ValidateSource(source); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < httpAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch cancelled: %w", ctx.Err())
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		img, retry, err := h.attempt(ctx, source)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", httpAttempts, lastErr)
}

// attempt performs one GET. The bool result reports whether the failure is transient.
func (h *HTTPImageFetcher) attempt(ctx context.Context, source string) (image.Image, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/tiff, image/bmp, image/gif, */*")
	req.Header.Set("User-Agent", "Image-Diagnostics/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("fetch cancelled: %w", ctx.Err())
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: client error: status code %d", ErrSourceNotFound, resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	img, err := h.decodeBody(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return img, false, nil
}
