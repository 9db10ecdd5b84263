package catalog

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the actor lacks the role or ownership
// required for the action.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InsufficientStockError names the product whose available stock cannot
// cover the requested quantity.
type InsufficientStockError struct {
	ID        uint
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (id %d): requested %d, available %d",
		e.Title, e.ID, e.Requested, e.Available)
}
