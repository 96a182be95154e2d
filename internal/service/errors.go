package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("forbidden")
)

// Conflicts the client can act on. Each wraps ErrConflict.
var (
	ErrEmailTaken  = fmt.Errorf("email is already registered: %w", ErrConflict)
	ErrCartChanged = fmt.Errorf("cart was changed concurrently: %w", ErrConflict)
	ErrCartOrdered = fmt.Errorf("cart already ordered by another account: %w", ErrConflict)
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of one request.
// errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Merge appends the fields of other when it is a ValidationError and returns
// any other non-nil error unchanged.
func (e *ValidationError) Merge(other error) error {
	if other == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(other, &ve) {
		e.Fields = append(e.Fields, ve.Fields...)
		return nil
	}
	return other
}

// OrNil returns e when at least one field failed.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func FieldInvalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
