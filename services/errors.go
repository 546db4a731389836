package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the store and the services on top of it.
// Telemetry-class writes swallow these (log-only); user-initiated actions
// propagate them to the controller layer.

// NotFoundError indicates a referenced entity is absent.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

// IndexRequiredError indicates a compound query needs a composite index
// the store does not have. Non-fatal: callers may retry with a reduced or
// unfiltered query as a degraded fallback.
type IndexRequiredError struct {
	Table string
	Index string
	Hint  string
}

func (e *IndexRequiredError) Error() string {
	return fmt.Sprintf("query on table '%s' requires index '%s': %s", e.Table, e.Index, e.Hint)
}

// NetworkError wraps a transient I/O failure talking to a collaborator.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError indicates malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsIndexRequired reports whether err is (or wraps) an IndexRequiredError.
func IsIndexRequired(err error) bool {
	var ir *IndexRequiredError
	return errors.As(err, &ir)
}
