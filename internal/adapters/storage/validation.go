package storage

import (
	"fmt"
	"strings"
)

// MaxFileSize caps a single stored object.
const MaxFileSize int64 = 50 << 20

// AllowedContentTypes defines the MIME types the application stores.
var AllowedContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel":                                          true,
	"text/csv":                                                          true,
}

// ValidateContentType checks if the content type is allowed.
func ValidateContentType(contentType string) error {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(normalized, ";"); idx != -1 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be positive")
	}
	if sizeBytes > MaxFileSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size of %d bytes", sizeBytes, MaxFileSize)
	}
	return nil
}
