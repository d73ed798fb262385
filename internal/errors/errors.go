package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeTimeout    ErrorType = "timeout"
)

// CodeInvalidInput marks a value that violated a field constraint.
const CodeInvalidInput = "INVALID_INPUT"

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on Type and Code, so the predefined errors below work as sentinels.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func callerSource(skip int) string {
	_, file, line, _ := runtime.Caller(skip + 1)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  callerSource(1),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   callerSource(1),
		Context:  make(map[string]interface{}),
	}
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
	// OnError is called once per handled error with its type. Optional.
	OnError func(ErrorType)
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	if h.OnError != nil {
		h.OnError(err.Type)
	}
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

func (h *Handler) handleGenericError(ctx context.Context, err error) {
	if h.OnError != nil {
		h.OnError(ErrorTypeInternal)
	}
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// Predefined errors
var (
	ErrInvalidInput     = New(ErrorTypeValidation, CodeInvalidInput, "Invalid input provided")
	ErrUserNotFound     = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrDebtNotEstimated = New(ErrorTypeNotFound, "DEBT_NOT_ESTIMATED", "Qadha has not been estimated yet")
	ErrDatabaseError    = New(ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
	ErrExternalAPI      = New(ErrorTypeExternal, "EXTERNAL_API", "External API error")
	ErrTimeout          = New(ErrorTypeTimeout, "TIMEOUT", "Operation timed out")
)

// NewInvalidInputError reports that field violated its constraint.
func NewInvalidInputError(field, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Source:  callerSource(1),
		Context: map[string]interface{}{"field": field},
	}
}

// IsInvalidInput reports whether err is (or wraps) an invalid-input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// FieldOf returns the field recorded on an invalid-input error, or "".
func FieldOf(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ""
	}
	field, _ := appErr.Context["field"].(string)
	return field
}

// NewDatabaseError wraps a failed gorm call; operation reads as
// "failed to <operation>".
func NewDatabaseError(err error, operation string) *AppError {
	appErr := Wrap(err, ErrorTypeDatabase, "DB_ERROR", "failed to "+operation).
		WithContext("operation", operation)
	appErr.Source = callerSource(1)
	return appErr
}

func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api)).
		WithContext("api", api)
}

func NewTimeoutError(operation string) *AppError {
	return New(ErrorTypeTimeout, "TIMEOUT", fmt.Sprintf("%s operation timed out", operation)).
		WithContext("operation", operation)
}
