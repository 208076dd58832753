package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kind is the closed set of failure categories surfaced to callers.
type Kind string

const (
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindWrongCredentials  Kind = "WRONG_CREDENTIALS"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindValidationFailed  Kind = "VALIDATION_FAILED"
	KindOperationConflict Kind = "OPERATION_CONFLICT"
	KindStoreError        Kind = "STORE_ERROR"
	KindSigningError      Kind = "SIGNING_ERROR"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can compare against the sentinel constructors.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

func newError(kind Kind, message string, err error) *DomainError {
	status, defaultMessage := statusFor(kind)
	if message == "" {
		message = defaultMessage
	}
	return &DomainError{Kind: kind, Message: message, HTTPStatus: status, Err: err}
}

func NewUnauthenticated() error {
	return newError(KindUnauthenticated, "", nil)
}

// NewWrongCredentials is returned for both an unknown name and a bad password.
func NewWrongCredentials() error {
	return newError(KindWrongCredentials, "", nil)
}

func NewNotFound() error {
	return newError(KindNotFound, "", nil)
}

func NewConflict(err error) error {
	return newError(KindConflict, "", err)
}

func NewValidationError(message string) error {
	return newError(KindValidationFailed, message, nil)
}

func NewOperationConflict() error {
	return newError(KindOperationConflict, "", nil)
}

// NewStoreError hides err from the response; it is kept for server-side logs.
func NewStoreError(err error) error {
	return newError(KindStoreError, "", err)
}

func NewSigningError(err error) error {
	return newError(KindSigningError, "", err)
}

func NewInternalError(err error) error {
	return newError(KindInternal, "", err)
}

// KindOf reports the Kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return newError(KindInternal, "", err)
}

// Translate maps err to the status code and user-visible message of the response.
func Translate(err error) (int, string) {
	domainErr := ToDomainError(err)
	if domainErr == nil {
		return http.StatusOK, "OK"
	}
	return domainErr.HTTPStatus, domainErr.Message
}

func statusFor(kind Kind) (int, string) {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized, "Login Error"
	case KindWrongCredentials:
		return http.StatusUnauthorized, "Username/password incorrect"
	case KindNotFound:
		return http.StatusNotFound, "Record not found"
	case KindConflict:
		return http.StatusConflict, "Record existed"
	case KindValidationFailed:
		return http.StatusBadRequest, "Invalid request"
	case KindOperationConflict:
		return http.StatusConflict, "Operation not allowed on own account"
	case KindStoreError:
		return http.StatusBadRequest, "Query Error"
	case KindSigningError, KindInternal:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func fromFiberError(fiberErr *fiber.Error) *DomainError {
	kind := KindInternal
	switch fiberErr.Code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidationFailed
	case http.StatusUnauthorized:
		kind = KindUnauthenticated
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	}
	return &DomainError{Kind: kind, Message: fiberErr.Message, HTTPStatus: fiberErr.Code, Err: fiberErr}
}
