// Package errors provides the application error taxonomy.
// Services return *AppError values so that the HTTP boundary can render a
// consistent response without leaking storage details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches on the error code so that errors.Is works against sentinels
// even after Wrap or WithMessage produced a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidRefreshToken = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "Invalid refresh token", StatusCode: http.StatusUnauthorized}
	ErrTooManyRequests     = &AppError{Code: "TOO_MANY_REQUESTS", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
)

// Validation errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrPageSizeTooLarge = &AppError{Code: "PAGE_SIZE_TOO_LARGE", Message: "Limit cannot exceed 100 items", StatusCode: http.StatusBadRequest}
	ErrInvalidCursor    = &AppError{Code: "INVALID_CURSOR", Message: "Malformed cursor", StatusCode: http.StatusBadRequest}
	ErrInvalidTimeRange = &AppError{Code: "INVALID_TIME_RANGE", Message: "End time must not be before start time", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound     = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail   = &AppError{Code: "DUPLICATE_EMAIL", Message: "User already exists with this email", StatusCode: http.StatusConflict}
	ErrPasswordMismatch = &AppError{Code: "PASSWORD_MISMATCH", Message: "Passwords do not match", StatusCode: http.StatusConflict}
)

// Entity errors.
var (
	ErrTaskNotFound       = &AppError{Code: "TASK_NOT_FOUND", Message: "Task not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrMeetingNotFound    = &AppError{Code: "MEETING_NOT_FOUND", Message: "Meeting schedule not found", StatusCode: http.StatusNotFound}
	ErrCountryLogNotFound = &AppError{Code: "COUNTRY_LOG_NOT_FOUND", Message: "Country log not found", StatusCode: http.StatusNotFound}
)

// External service errors.
var (
	ErrCalendarGeneration   = &AppError{Code: "CALENDAR_GENERATION_FAILED", Message: "ICS generation failed", StatusCode: http.StatusBadGateway}
	ErrImageUpload          = &AppError{Code: "IMAGE_UPLOAD_FAILED", Message: "Image upload failed", StatusCode: http.StatusBadGateway}
	ErrStorageNotConfigured = &AppError{Code: "STORAGE_NOT_CONFIGURED", Message: "Image storage is not configured", StatusCode: http.StatusServiceUnavailable}
)
