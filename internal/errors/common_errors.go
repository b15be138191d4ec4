package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataUnavailable ErrorType = "DATA_UNAVAILABLE"
	ErrTypeNoDataForFilter ErrorType = "NO_DATA_FOR_FILTER"
	ErrTypeSchemaMismatch  ErrorType = "SCHEMA_MISMATCH"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeEmptyTable      ErrorType = "EMPTY_TABLE"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// Sentinels matched by errors.Is against any AppError of the same type.
var (
	ErrDataUnavailable = errors.New("data unavailable")
	ErrNoDataForFilter = errors.New("no data for filter")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrValidation      = errors.New("validation failed")
	ErrEmptyTable      = errors.New("empty table")
)

var sentinels = map[ErrorType]error{
	ErrTypeDataUnavailable: ErrDataUnavailable,
	ErrTypeNoDataForFilter: ErrNoDataForFilter,
	ErrTypeSchemaMismatch:  ErrSchemaMismatch,
	ErrTypeValidation:      ErrValidation,
	ErrTypeEmptyTable:      ErrEmptyTable,
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel registered for the error's type.
func (e *AppError) Is(target error) bool {
	s, ok := sentinels[e.Type]
	return ok && s == target
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewDataUnavailableError reports a dataset that is missing, unreadable or unparsable.
func NewDataUnavailableError(city, message string, cause error) *AppError {
	return NewAppError(ErrTypeDataUnavailable, message, cause).WithContext("city", city)
}

// NewNoDataForFilterError reports a filter combination that selects no trips.
func NewNoDataForFilterError(city, month, day string) *AppError {
	return NewAppError(ErrTypeNoDataForFilter,
		fmt.Sprintf("no trips for city=%s month=%s day=%s", city, month, day), nil).
		WithContext("city", city).
		WithContext("month", month).
		WithContext("day", day)
}

// NewSchemaMismatchError reports a statistic whose required column is absent.
func NewSchemaMismatchError(field string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, fmt.Sprintf("dataset has no %s data", field), nil).
		WithContext("field", field)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string, fields ...ValidationError) *AppError {
	e := NewAppError(ErrTypeValidation, message, nil)
	if len(fields) > 0 {
		e.WithContext("errors", fields)
	}
	return e
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
