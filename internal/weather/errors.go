package weather

import "fmt"

// FetchError reports a transport-level failure retrieving a product:
// network error, timeout, or a non-success response status.
type FetchError struct {
	Product Product
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Product, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a malformed payload or a malformed individual record.
// Section names the offending part of the payload.
type ParseError struct {
	Product Product
	Section string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("parse %s: %s: %v", e.Product, e.Section, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Product, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StoreError reports a persistence failure. It implies the store may be
// unavailable, so callers treat it as a failed cycle rather than a
// recoverable per-record problem.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
