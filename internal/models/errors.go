package models

import (
	"fmt"
	"net/http"
)

// Error codes, one per failure category. Every AppError carries exactly one
// of these together with its fixed HTTP status.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// AppError is the typed error carried from business logic to the HTTP error
// layer. Cause is never serialized to clients directly; the error middleware
// decides what leaves the process based on the environment.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
	Stack   string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func NewValidationError(message string, fieldErrors map[string]string) *AppError {
	err := &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
	if len(fieldErrors) > 0 {
		err.WithDetail("fields", fieldErrors)
	}
	return err
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func NewNotFoundError(path string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("no route for %s", path),
		Status:  http.StatusNotFound,
	}
}

func NewMethodNotAllowedError(method string) *AppError {
	return &AppError{
		Code:    CodeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed on this route", method),
		Status:  http.StatusMethodNotAllowed,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// AsAppError coerces any error into an AppError, defaulting unknown errors
// to an opaque 500 so no raw error text reaches clients by accident.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError("an unexpected error occurred").WithCause(err)
}

// ErrorBody is the wire shape of every error leaving the gateway. Details
// and Stack are populated only outside production mode.
type ErrorBody struct {
	Message   string                 `json:"message"`
	Status    int                    `json:"status"`
	Code      string                 `json:"code"`
	Timestamp string                 `json:"timestamp"`
	Path      string                 `json:"path"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Stack     string                 `json:"stack,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
