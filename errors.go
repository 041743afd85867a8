package refdata

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is matched by every TransportError.
	ErrTransport = errors.New("unexpected http status")

	// ErrShape is matched by every ShapeError.
	ErrShape = errors.New("unexpected response shape")

	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrUnknownCategory is matched by every UnknownQuoteTypeError.
	ErrUnknownCategory = errors.New("unknown category")
)

// TransportError reports a non 200 http status from a remote service.
type TransportError struct {
	Status int    // http status code
	Key    string // what was requested, an ISIN, a symbol or a currency and range.
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %d for %s", ErrTransport, e.Status, e.Key)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ShapeError reports a response that was received but does not have the expected structure.
type ShapeError struct {
	Key    string // what was requested.
	Reason string // what is missing or invalid.
	Body   any    // the parsed body, or the raw text if it could not be parsed.
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s for %s: %s", ErrShape, e.Key, e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// NotFoundError reports a search that did not return exactly one match.
type NotFoundError struct {
	ISIN  string
	Count int // number of matches, 0 or more than 1.
	Body  any // the parsed search response.
}

func (e *NotFoundError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("security %s %s", e.ISIN, ErrNotFound)
	}
	return fmt.Sprintf("security %s %s: %d matches, want exactly one", e.ISIN, ErrNotFound, e.Count)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnknownQuoteTypeError reports a quote type that cannot be turned into a Security.
type UnknownQuoteTypeError struct {
	QuoteType string
}

func (e *UnknownQuoteTypeError) Error() string {
	return fmt.Sprintf("%s: quote type %q", ErrUnknownCategory, e.QuoteType)
}

func (e *UnknownQuoteTypeError) Is(target error) bool { return target == ErrUnknownCategory }
