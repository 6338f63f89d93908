// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinels for conditions that carry no extra detail.
var (
	ErrNotFound  = errors.New("not found")
	ErrTransient = errors.New("temporarily unavailable, try again")
)

// ValidationError is bad input shape or a violated business rule that the
// caller can fix. Rendered as 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports the first line item of a reservation that
// could not be satisfied. The whole reservation is rolled back when it is
// returned.
type InsufficientStockError struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Available   int       `json:"available"`
	Requested   int       `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// IntegrityError is a persistent-store constraint failure that survived the
// internal retry budget (e.g. a bill number collision after regeneration).
// Rendered as 500.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity failure in %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
