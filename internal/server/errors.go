package server

import (
	"errors"
	"fmt"
	"net/http"

	"priceview/internal/history"
	"priceview/internal/interaction"
	"priceview/internal/selection"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Field: field, Message: message, Status: status}
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError("ERR_NOT_FOUND", "", message, http.StatusNotFound)
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError("ERR_BAD_REQUEST", "", message, http.StatusBadRequest)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}

// toAppError maps domain errors onto HTTP statuses.
func toAppError(err error) *AppError {
	var (
		appErr  *AppError
		unknown *history.UnknownProductError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &unknown):
		e := NotFoundError(err.Error()).WithError(err)
		e.Code = "ERR_UNKNOWN_PRODUCT"
		e.Field = "product"
		return e
	case errors.Is(err, interaction.ErrUnknownTrigger), errors.Is(err, interaction.ErrAmbiguousTrigger):
		e := BadRequestError(err.Error()).WithError(err)
		e.Field = "trigger"
		return e
	case errors.Is(err, selection.ErrUnknownRange):
		e := BadRequestError(err.Error()).WithError(err)
		e.Field = "range"
		return e
	case errors.Is(err, interaction.ErrNoProducts):
		return NotFoundError(err.Error()).WithError(err)
	default:
		return InternalError("Something went wrong").WithError(err)
	}
}
