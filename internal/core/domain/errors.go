package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrValidation       = errors.New("validation failed")
	ErrExtraction       = errors.New("text extraction failed")
	ErrOracle           = errors.New("oracle unavailable")
	ErrStateConflict    = errors.New("document state conflict")
	ErrConfiguration    = errors.New("invalid configuration")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
