package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ServiceError so transports can map it to a status code
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindUnauthorized        ErrorKind = "Unauthorized"
	KindForbidden           ErrorKind = "Forbidden"
	KindNotFound            ErrorKind = "NotFound"
	KindConflict            ErrorKind = "Conflict"
	KindDuplicateActive     ErrorKind = "DuplicateActive"
	KindInvalidTransition   ErrorKind = "InvalidTransition"
	KindNoProvider          ErrorKind = "NoProvider"
	KindProviderUnavailable ErrorKind = "ProviderUnavailable"
	KindNoData              ErrorKind = "NoData"
	KindInternal            ErrorKind = "Internal"
)

// ServiceError is returned by every domain operation. Code is a stable machine-readable
// identifier, Message is safe to show to the caller and Err keeps the underlying cause.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a ServiceError anywhere in err's chain, or KindInternal
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func newError(kind ErrorKind, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

func invalidInput(message string) *ServiceError {
	return newError(KindInvalidInput, "INVALID_INPUT", message)
}

func internalError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Code: "DATABASE_ERROR", Message: message, Err: err}
}
