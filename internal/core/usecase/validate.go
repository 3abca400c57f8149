package usecase

import (
	"fmt"
	"strings"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// FileValidator checks upload candidates against policy before any
// processing begins. It is pure: same inputs always yield the same verdict.
type FileValidator struct {
	maxSizeBytes int64
	allowedMime  map[string]struct{}
}

func NewFileValidator(maxSizeBytes int64, allowedMimeTypes []string) *FileValidator {
	allowed := make(map[string]struct{}, len(allowedMimeTypes))
	for _, m := range allowedMimeTypes {
		allowed[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &FileValidator{
		maxSizeBytes: maxSizeBytes,
		allowedMime:  allowed,
	}
}

// Validate applies the rules in order, first failure wins: size cap, MIME
// allow-list, non-empty filename.
func (v *FileValidator) Validate(filename string, sizeBytes int64, mimeType string) error {
	if sizeBytes > v.maxSizeBytes {
		return domain.WrapError(domain.ErrValidation, "validate upload",
			fmt.Errorf("file size %d exceeds maximum of %d bytes", sizeBytes, v.maxSizeBytes))
	}

	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(normalized, ";"); i >= 0 {
		normalized = strings.TrimSpace(normalized[:i])
	}
	if _, ok := v.allowedMime[normalized]; !ok {
		return domain.WrapError(domain.ErrValidation, "validate upload",
			fmt.Errorf("content type %q is not allowed", mimeType))
	}

	if strings.TrimSpace(filename) == "" {
		return domain.WrapError(domain.ErrValidation, "validate upload",
			fmt.Errorf("filename is required"))
	}
	return nil
}
