package validation

import (
	"testing"

	apperrors "github.com/anime-shed/image-diagnostics-go/internal/errors"
)

func expectValidationMessage(t *testing.T, err error, message string) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got: %T (%v)", err, err)
	}
	if appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("Expected validation error, got %s", appErr.Type)
	}
	if appErr.Message != message {
		t.Errorf("Expected %q error, got: %s", message, appErr.Message)
	}
}

func TestValidate_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"http://example.com/image.jpg",
		"https://example.com/image.png",
		"HTTPS://subdomain.example.com/path/to/frame.tiff",
		"http://192.168.1.1:8080/render.png",
	}

	for _, raw := range validURLs {
		parsed, err := validator.Validate(raw)
		if err != nil {
			t.Errorf("Expected valid URL %s to pass validation, got error: %v", raw, err)
			continue
		}
		if parsed.Hostname() == "" {
			t.Errorf("Expected parsed URL with host for %s", raw)
		}
	}
}

func TestValidate_EmptyURL(t *testing.T) {
	validator := NewURLValidator()

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := validator.Validate(raw)
		expectValidationMessage(t, err, "URL cannot be empty")
	}
}

func TestValidate_InvalidScheme(t *testing.T) {
	validator := NewURLValidator()

	invalidSchemeURLs := []string{
		"ftp://example.com/image.jpg",
		"file://local/path/image.jpg",
		"not-a-url",
	}

	for _, raw := range invalidSchemeURLs {
		_, err := validator.Validate(raw)
		expectValidationMessage(t, err, "URL scheme not allowed")
	}
}

func TestValidate_NoHost(t *testing.T) {
	validator := NewURLValidator()

	for _, raw := range []string{"http://", "https://", "http:///path", "http://:8080/x"} {
		_, err := validator.Validate(raw)
		expectValidationMessage(t, err, "URL must have a valid host")
	}
}

func TestValidate_MalformedURL(t *testing.T) {
	_, err := NewURLValidator().Validate("http://[::1")
	expectValidationMessage(t, err, "Invalid URL format")
}

func TestValidate_RestrictedHosts(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"example.com", ".blob.core.windows.net"})

	allowed := []string{
		"https://example.com/image.jpg",
		"https://account.blob.core.windows.net/renders/frame.png",
	}
	for _, raw := range allowed {
		if _, err := validator.Validate(raw); err != nil {
			t.Errorf("Expected %s to be allowed, got %v", raw, err)
		}
	}

	disallowed := []string{
		"https://malicious.com/image.jpg",
		"https://sub.example.com/image.jpg",
		"https://blob.core.windows.net.evil.com/x.png",
	}
	for _, raw := range disallowed {
		_, err := validator.Validate(raw)
		expectValidationMessage(t, err, "URL host not allowed")
	}

	_, err := validator.Validate("http://example.com/image.jpg")
	expectValidationMessage(t, err, "URL scheme not allowed")
}
