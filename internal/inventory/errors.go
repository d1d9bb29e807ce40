package inventory

import (
	"errors"

	"garage/internal/collection"
	"garage/internal/tabular"
)

// Business-logic failures the boundary converts into structured results.
// Store-level failures (tabular.ErrSchema, I/O errors) pass through unwrapped
// markers and are treated as infrastructure faults.
var (
	ErrUnknownToy      = collection.ErrUnknownToy
	ErrInvalidQuantity = collection.ErrInvalidQuantity
	ErrNotFound        = collection.ErrNotFound
	ErrNoEntries       = errors.New("no valid entries found")
	ErrUnknownStore    = errors.New("unknown store name")
)

// IsClientError reports whether err is a business failure rather than an
// infrastructure one. The HTTP layer maps client errors to structured 4xx
// payloads and everything else to a 5xx.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrUnknownToy),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNoEntries),
		errors.Is(err, ErrUnknownStore):
		return true
	}
	return false
}

// IsSchemaError reports whether err stems from an unrecoverable header.
func IsSchemaError(err error) bool {
	return errors.Is(err, tabular.ErrSchema)
}
