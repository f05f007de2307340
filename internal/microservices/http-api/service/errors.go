package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error categories. Every error a service returns on purpose wraps exactly one of them,
// so callers can branch with errors.Is without knowing the specific cause.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrInvariant  = errors.New("invariant violated")
)

var (
	ErrNoBooksSelected    = fmt.Errorf("%w: Please select at least one book", ErrValidation)
	ErrSerialNoTaken      = fmt.Errorf("%w: a book with this serial number already exists", ErrValidation)
	ErrInvalidPayment     = fmt.Errorf("%w: payment method must be one of cash, card, upi", ErrValidation)
	ErrBookNotFound       = fmt.Errorf("%w: book", ErrNotFound)
	ErrMemberNotFound     = fmt.Errorf("%w: member", ErrNotFound)
	ErrLoanNotFound       = fmt.Errorf("%w: borrowed book", ErrNotFound)
	ErrPaymentNotFound    = fmt.Errorf("%w: payment", ErrNotFound)
	ErrOutOfStock         = fmt.Errorf("%w: book is not available", ErrInvariant)
	ErrAlreadyReturned    = fmt.Errorf("%w: book has already been returned", ErrInvariant)
	ErrAmountDueExceeded  = fmt.Errorf("%w: member amount due would exceed the limit", ErrInvariant)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUsernameInUse      = errors.New("username already in use")
)

// FieldErrors collects per-field validation messages for a form.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// Err returns nil when no field failed, otherwise a ValidationError carrying the fields.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError is a form that failed field checks.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
