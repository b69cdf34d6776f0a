package models

import (
	"errors"
	"fmt"
)

// ErrValidation represents a validation error with field and message.
type ErrValidation struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ErrValidation) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Common validation errors for models.
var (
	// ErrMimeTypeRequired indicates a required MIME type field is empty.
	ErrMimeTypeRequired = errors.New("mime_type is required")

	// ErrDecoderRequired indicates a required decoder name field is empty.
	ErrDecoderRequired = errors.New("decoder is required")

	// ErrSelectionNotFound indicates a selection record was not found.
	ErrSelectionNotFound = errors.New("selection not found")
)
