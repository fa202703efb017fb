package models

import (
	"errors"
	"fmt"
)

// ErrValidation indicates a request was rejected before any I/O was attempted.
var ErrValidation = errors.New("validation failed")

// ErrNotFound indicates the referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientStock indicates an outbound movement exceeds the available quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidState indicates a debt resolution was attempted on a non-pending transaction.
var ErrInvalidState = errors.New("invalid transaction state")

// ErrImportFormat indicates the import source could not be interpreted at all.
var ErrImportFormat = errors.New("unsupported import source format")

// ErrStaleProduct indicates the product changed between the read and the guarded write.
var ErrStaleProduct = errors.New("product modified concurrently")

// InsufficientStockError carries the quantity that was actually available so the
// caller can surface it next to the rejected request.
type InsufficientStockError struct {
	Available float64
	Requested float64
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %.2f, available %.2f %s", e.Requested, e.Available, e.Unit)
}

// Unwrap makes errors.Is(err, ErrInsufficientStock) work on the typed error.
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
