package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched with Is. Every AppError built by this package wraps one.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("inactive account")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// AppError is an error with the HTTP status and message the client sees
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`

	// Fields flags which unique fields collided on a conflict
	Fields map[string]bool `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

type kind struct {
	sentinel error
	code     string
	status   int
}

var (
	kindNotFound           = kind{ErrNotFound, "NOT_FOUND", http.StatusNotFound}
	kindUnauthorized       = kind{ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized}
	kindForbidden          = kind{ErrForbidden, "FORBIDDEN", http.StatusForbidden}
	kindBadRequest         = kind{ErrBadRequest, "BAD_REQUEST", http.StatusBadRequest}
	kindConflict           = kind{ErrConflict, "CONFLICT", http.StatusConflict}
	kindInternal           = kind{ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError}
	kindValidation         = kind{ErrValidation, "VALIDATION_ERROR", http.StatusBadRequest}
	kindInvalidCredentials = kind{ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized}
	kindInactiveAccount    = kind{ErrInactiveAccount, "ACCOUNT_INACTIVE", http.StatusForbidden}
	kindTokenExpired       = kind{ErrTokenExpired, "TOKEN_EXPIRED", http.StatusUnauthorized}
	kindTokenInvalid       = kind{ErrTokenInvalid, "TOKEN_INVALID", http.StatusUnauthorized}
)

func (k kind) with(message string) *AppError {
	return &AppError{Err: k.sentinel, Code: k.code, Message: message, StatusCode: k.status}
}

// Wrap attaches a client message and status to an underlying error
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{Err: err, Code: code, Message: message, StatusCode: statusCode}
}

// NotFound reports "<resource> not found". Rows outside the caller's tenant
// scope are reported the same way.
func NotFound(resource string) *AppError {
	return kindNotFound.with(resource + " not found")
}

func Unauthorized(message string) *AppError { return kindUnauthorized.with(message) }

func Forbidden(message string) *AppError { return kindForbidden.with(message) }

func BadRequest(message string) *AppError { return kindBadRequest.with(message) }

func Conflict(message string) *AppError { return kindConflict.with(message) }

func Internal(message string) *AppError { return kindInternal.with(message) }

// ConflictFields creates a conflict that tells the client which unique fields collided
func ConflictFields(message string, fields map[string]bool) *AppError {
	e := Conflict(message)
	e.Fields = fields
	return e
}

// Validation reports per-field problems keyed by JSON field name
func Validation(details map[string]string) *AppError {
	e := kindValidation.with("validation failed")
	e.Details = details
	return e
}

// ValidationMessage creates a validation error with a caller-facing message
func ValidationMessage(message string, details map[string]string) *AppError {
	e := Validation(details)
	e.Message = message
	return e
}

func InvalidCredentials() *AppError { return kindInvalidCredentials.with("Invalid credentials") }

func InactiveAccount() *AppError { return kindInactiveAccount.with("Account pending activation") }

func TokenExpired() *AppError { return kindTokenExpired.with("token has expired") }

func TokenInvalid() *AppError { return kindTokenInvalid.with("invalid token") }

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
