package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/thirteenf/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidField = errors.New("invalid field")
)

// validDataTypes are the data types a catalog field may declare.
var validDataTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"date":    true,
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an id refers to a possible row.
func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// validateData ensures record data is present.
func validateData(data map[string]any) error {
	if data == nil {
		return fmt.Errorf("%w: data", ErrNilParameter)
	}
	return nil
}

// validateField validates a catalog field.
func validateField(field *model.Field) error {
	if field == nil {
		return fmt.Errorf("%w: field", ErrNilParameter)
	}
	if strings.TrimSpace(field.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidField)
	}
	if strings.TrimSpace(field.Label) == "" {
		return fmt.Errorf("%w: missing label", ErrInvalidField)
	}
	if !validDataTypes[field.DataType] {
		return fmt.Errorf("%w: unsupported data type %q", ErrInvalidField, field.DataType)
	}
	return nil
}
