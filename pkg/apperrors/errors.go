// Package apperrors defines the domain error taxonomy: not-found lookups,
// business rule violations, and IO failures. Handlers map these to HTTP
// status codes at the request boundary.
package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced entity id is absent from the store.
type NotFoundError struct {
	Resource string
	Field    string
	Value    interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: %v", e.Resource, e.Field, e.Value)
}

// NotFound builds a NotFoundError for a resource lookup.
func NotFound(resource, field string, value interface{}) error {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

// BusinessError indicates a request violated a business rule (duplicate
// invoice, inactive vendor, refund on a non-successful payment, ...).
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

// Business builds a BusinessError with the given message.
func Business(format string, args ...interface{}) error {
	return &BusinessError{Message: fmt.Sprintf(format, args...)}
}

// IOError wraps a storage or rendering failure with its underlying cause.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an IOError for operation op.
func IO(op string, err error) error {
	return &IOError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsBusiness reports whether err is a BusinessError.
func IsBusiness(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}
