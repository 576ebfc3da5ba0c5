package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrLoanNotActive    = errors.New("loan is not active")
	ErrValidationFailed = errors.New("loan application validation failed")
	ErrLockTimeout      = errors.New("could not acquire loan lock")
	ErrFeedUnavailable  = errors.New("transaction feed unavailable")
	ErrFeedMalformed    = errors.New("transaction feed malformed")
	ErrInvalidAmount    = errors.New("invalid payment amount")
)

// Error codes
const (
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeLoanNotFound        = "LOAN_NOT_FOUND"
	ErrCodeLoanNotActive       = "LOAN_NOT_ACTIVE"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeDataSourceError     = "DATA_SOURCE_ERROR"
	ErrCodeInvalidAmount       = "INVALID_PAYMENT_AMOUNT"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError carries the first failing affordability rule's message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Wrap common errors with business context

func WrapUserNotFound(userID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotFound,
		fmt.Sprintf("User with ID %s not found", userID),
		ErrUserNotFound,
	)
}

func WrapLoanNotFound(loanID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanNotActive(loanID uuid.UUID) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotActive,
		fmt.Sprintf("Loan with ID %s is not active", loanID),
		ErrLoanNotActive,
	)
}

func WrapLockTimeout(loanID uuid.UUID, err error) *BusinessError {
	if err == nil {
		err = ErrLockTimeout
	}
	return NewBusinessError(
		ErrCodeConcurrencyConflict,
		fmt.Sprintf("Could not acquire lock on loan %s", loanID),
		err,
	)
}

func WrapFeedError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDataSourceError,
		"transaction feed read failed",
		err,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidAmount,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
