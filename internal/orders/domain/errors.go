package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an order-ledger failure so callers (and the HTTP layer)
// can react without string matching.
type Kind string

const (
	KindBookNotFound          Kind = "book_not_found"
	KindInvalidAddress        Kind = "invalid_address"
	KindInvalidQuantity       Kind = "invalid_quantity"
	KindInvalidPrice          Kind = "invalid_price"
	KindPriceMismatch         Kind = "price_mismatch"
	KindOrderNotFound         Kind = "order_not_found"
	KindInvalidTransition     Kind = "invalid_transition"
	KindAssociatedBookMissing Kind = "associated_book_missing"
	KindValidationFailed      Kind = "validation_failed"
	KindInternal              Kind = "internal"
)

// Error is a classified order-ledger failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// E builds a classified error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected data-layer error. The underlying message is
// preserved, never silently discarded.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// KindOf extracts the Kind from err, returning KindInternal for anything
// that is not a classified Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
