package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ===============================
// ERROR TYPES
// ===============================

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewBusinessError creates a business logic error
func NewBusinessError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "BUSINESS_ERROR",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       "CONFLICT",
		Message:    message,
		Code:       code,
		StatusCode: http.StatusConflict,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *ServiceError {
	return &ServiceError{
		Type:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// ===============================
// DOMAIN ERRORS
// ===============================

// Error codes surfaced by the gamification services
const (
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeOutOfOrderActivity  = "OUT_OF_ORDER_ACTIVITY"
	CodeInvalidScopeTarget  = "INVALID_SCOPE_TARGET"
	CodeUnknownAction       = "UNKNOWN_ACTION"
)

// NewInsufficientBalanceError is returned when a spend exceeds the current
// balance. No ledger mutation occurs; the caller shows the rejection.
func NewInsufficientBalanceError(balance, requested int64) *ServiceError {
	err := NewBusinessError("not enough points for this spend", CodeInsufficientBalance)
	err.Details = map[string]interface{}{
		"current_balance": balance,
		"requested":       requested,
	}
	return err
}

// NewOutOfOrderActivityError is returned when a streak event is dated before
// the last recorded activity. Streak state is left unchanged.
func NewOutOfOrderActivityError(lastActivity, received string) *ServiceError {
	err := NewBusinessError("activity is dated before the last recorded activity", CodeOutOfOrderActivity)
	err.Details = map[string]interface{}{
		"last_activity_date": lastActivity,
		"received_date":      received,
	}
	return err
}

// NewInvalidScopeTargetError is returned when a scoped operation is missing
// its scope id. Rejected at the call boundary before any mutation.
func NewInvalidScopeTargetError(scope string) *ServiceError {
	err := NewValidationError(fmt.Sprintf("scope %q requires a scope_id", scope), nil)
	err.Code = CodeInvalidScopeTarget
	return err
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error, or wraps it as a
// generic internal error
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewInternalError(err.Error())
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.Type == errorType
	}
	return false
}

// IsErrorCode checks if an error carries a specific code
func IsErrorCode(err error, code string) bool {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.Code == code
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, "NOT_FOUND")
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsErrorType(err, "VALIDATION_ERROR")
}

// IsInsufficientBalance checks for the spend rejection error
func IsInsufficientBalance(err error) bool {
	return IsErrorCode(err, CodeInsufficientBalance)
}

// IsOutOfOrderActivity checks for the out-of-order streak rejection
func IsOutOfOrderActivity(err error) bool {
	return IsErrorCode(err, CodeOutOfOrderActivity)
}
