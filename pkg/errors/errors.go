// Package errors defines the error kinds of the user service and their single mapping
// to transport status codes. Every failure raised by the service carries exactly one Kind.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind tags an AppError with the failure category it belongs to.
type Kind int

const (
	// KindInternal is any failure without a more specific category
	KindInternal Kind = iota
	// KindInvalidRequest is malformed client input
	KindInvalidRequest
	// KindInvalidAlgorithm is an unrecognised signing algorithm; fatal misconfiguration
	KindInvalidAlgorithm
	// KindTokenInvalid is a bad signature, malformed token or subject/expiry mismatch
	KindTokenInvalid
	// KindUserNotFound is a subject without a matching account
	KindUserNotFound
	// KindUserExists is a registration for an email already in use
	KindUserExists
	// KindForbidden is a failed credential check or missing identity
	KindForbidden
	// KindTokenNotFound is an unknown confirmation token
	KindTokenNotFound
	// KindAlreadyActivated is a confirmation token that was already used
	KindAlreadyActivated
	// KindExpired is a confirmation token past its expiry
	KindExpired
	// KindKMSFailure is a failed call to the key management service
	KindKMSFailure
	// KindStorageFailure is a failed call to the document/relational store
	KindStorageFailure
	// KindPublishFailure is a failed message queue publish
	KindPublishFailure
)

var kindNames = map[Kind]string{
	KindInternal:         "internal_error",
	KindInvalidRequest:   "invalid_request",
	KindInvalidAlgorithm: "invalid_algorithm",
	KindTokenInvalid:     "token_invalid",
	KindUserNotFound:     "user_not_found",
	KindUserExists:       "user_exists",
	KindForbidden:        "forbidden",
	KindTokenNotFound:    "token_not_found",
	KindAlreadyActivated: "already_activated",
	KindExpired:          "expired",
	KindKMSFailure:       "kms_failure",
	KindStorageFailure:   "storage_failure",
	KindPublishFailure:   "publish_failure",
}

// String returns the machine readable error code of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// HTTPStatus maps the kind to the status code written at the HTTP boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest, KindUserExists, KindTokenNotFound, KindAlreadyActivated, KindExpired:
		return http.StatusBadRequest
	case KindTokenInvalid:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ================================================================================
// AppError
// ================================================================================

// AppError is the structured error carried through the service.
type AppError struct {
	kind     Kind
	message  string
	cause    error
	metadata map[string]interface{}
}

// Error implements the error interface. The cause is appended so logs keep the full chain.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Kind returns the failure category.
func (e *AppError) Kind() Kind { return e.kind }

// Message returns the human readable message without the cause.
func (e *AppError) Message() string { return e.message }

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error { return e.cause }

// Metadata returns all metadata
func (e *AppError) Metadata() map[string]interface{} { return e.metadata }

// Is reports whether target is an AppError of the same kind, so a bare constructor
// value can be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

// WithCause returns a copy of the error wrapping cause.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithMetadata returns a copy of the error carrying an extra metadata entry.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	cp := *e
	cp.metadata = make(map[string]interface{}, len(e.metadata)+1)
	for k, v := range e.metadata {
		cp.metadata[k] = v
	}
	cp.metadata[key] = value
	return &cp
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{kind: kind, message: message}
}

// Wrap creates an AppError of the given kind around err.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{kind: kind, message: message, cause: err}
}

// ================================================================================
// Inspection helpers
// ================================================================================

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.kind == kind
}

// HTTPStatus returns the status code for err.
func HTTPStatus(err error) int {
	return KindOf(err).HTTPStatus()
}

// PublicMessage returns the message safe to show to a client. Internal failures are not
// described beyond their category.
func PublicMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return "Internal server error"
	}
	if appErr.kind.HTTPStatus() >= http.StatusInternalServerError && appErr.kind != KindInvalidAlgorithm {
		return "Internal server error"
	}
	return appErr.message
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is errors.As from the standard library.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// ================================================================================
// Domain-Specific Error Constructors
// ================================================================================

// ErrInvalidAlgorithm reports an unrecognised signing algorithm
func ErrInvalidAlgorithm(algorithm string) *AppError {
	return New(KindInvalidAlgorithm, "Algorithm not found").WithMetadata("algorithm", algorithm)
}

// ErrTokenInvalid reports a bearer token that failed verification
func ErrTokenInvalid(reason string) *AppError {
	return New(KindTokenInvalid, "JWT is invalid").WithMetadata("reason", reason)
}

// ErrUserNotFound reports a missing account
func ErrUserNotFound(email string) *AppError {
	return New(KindUserNotFound, fmt.Sprintf("User with email %s not found", email))
}

// ErrUserIDNotFound reports a missing account looked up by id
func ErrUserIDNotFound(id string) *AppError {
	return New(KindUserNotFound, fmt.Sprintf("User not found with ID: %s", id))
}

// ErrUserExists reports a duplicate registration
func ErrUserExists(email string) *AppError {
	return New(KindUserExists, fmt.Sprintf("User with email %s already exists", email))
}

// ErrForbidden reports a denied request
func ErrForbidden(message string) *AppError {
	return New(KindForbidden, message)
}

// ErrConfirmationTokenNotFound reports an unknown verification link
func ErrConfirmationTokenNotFound() *AppError {
	return New(KindTokenNotFound, "Invalid verification link")
}

// ErrAlreadyActivated reports a verification link that was already used
func ErrAlreadyActivated() *AppError {
	return New(KindAlreadyActivated, "Email is already verified")
}

// ErrConfirmationExpired reports a verification link past its expiry
func ErrConfirmationExpired() *AppError {
	return New(KindExpired, "Verification link is expired")
}

// ErrInvalidRequest reports malformed input
func ErrInvalidRequest(message string) *AppError {
	return New(KindInvalidRequest, message)
}

// ErrKMSFailure reports a failed KMS operation
func ErrKMSFailure(operation string) *AppError {
	return New(KindKMSFailure, fmt.Sprintf("kms %s failed", operation))
}

// ErrStorageFailure reports a failed storage operation
func ErrStorageFailure(operation string) *AppError {
	return New(KindStorageFailure, fmt.Sprintf("storage %s failed", operation))
}

// ErrPublishFailure reports a failed message publish
func ErrPublishFailure(topic string) *AppError {
	return New(KindPublishFailure, fmt.Sprintf("publish to %s failed", topic))
}

// ErrInternal reports an unexpected condition
func ErrInternal(message string) *AppError {
	return New(KindInternal, message)
}
