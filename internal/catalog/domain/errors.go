package domain

import "errors"

// ErrProductNotFound is returned when a product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicateSKU is returned when a create or update collides with an
// existing product's SKU.
var ErrDuplicateSKU = errors.New("a product with this SKU already exists")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
