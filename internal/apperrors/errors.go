package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the authenticated actor may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// ErrFormat indicates a reference number failed length or character-class checks.
var ErrFormat = errors.New("reference format invalid")

// ErrChecksum indicates a reference number failed its provider checksum or verification digit.
var ErrChecksum = errors.New("reference checksum invalid")

// ErrReconciliation indicates denomination totals do not match the declared amount.
var ErrReconciliation = errors.New("denomination totals do not reconcile")

// ErrInsufficientInventory indicates the drawer lacks the denominations required.
var ErrInsufficientInventory = errors.New("insufficient drawer inventory")

// ErrLimitExceeded indicates a provider credit or daily cap would be breached.
var ErrLimitExceeded = errors.New("credit limit exceeded")

// ErrStateConflict indicates a status transition was attempted from an invalid state.
var ErrStateConflict = errors.New("invalid transaction state for operation")

// ErrUnreachableChange indicates exact change cannot be assembled from the available inventory.
var ErrUnreachableChange = errors.New("exact change not representable with available inventory")

// AppError carries a status code, a human-readable message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates a new AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
