package errors

import (
	goerrors "errors"
	"fmt"
)

type ErrorCode string

const (
	AccountNotFound    ErrorCode = "account_not_found"
	DuplicateAccount   ErrorCode = "duplicate_account"
	InvalidCredentials ErrorCode = "invalid_credentials"
	InvalidAmount      ErrorCode = "invalid_amount"
	StorageError       ErrorCode = "storage_error"
	InternalError      ErrorCode = "internal_error"
)

// AppError is an error whose Message is safe to show to the person at the terminal.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code, so a detailed copy still satisfies errors.Is against
// the predefined value it was derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy carrying details; the receiver is left untouched
// so predefined errors can be decorated safely.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// AsAppError unwraps err to an *AppError if there is one in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if goerrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Predefined errors for common cases
var (
	ErrAccountNotFound      = NewAppError(AccountNotFound, "Account not found.")
	ErrDuplicateAccount     = NewAppError(DuplicateAccount, "Account number already exists.")
	ErrInvalidCredentials   = NewAppError(InvalidCredentials, "Invalid credentials.")
	ErrInvalidDeposit       = NewAppError(InvalidAmount, "Invalid deposit amount.")
	ErrInvalidWithdrawal    = NewAppError(InvalidAmount, "Invalid or insufficient funds.")
	ErrStorageUnavailable   = NewAppError(StorageError, "Account data could not be saved.")
	ErrMalformedAccountData = NewAppError(StorageError, "Account data file is malformed.")
)
