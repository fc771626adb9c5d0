// Package errors provides custom error types for the Centavo API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
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

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Account errors.
var (
	ErrAccountNotFound    = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrNotCreditCard      = &AppError{Code: "NOT_CREDIT_CARD", Message: "Account is not a credit card", StatusCode: http.StatusBadRequest}
	ErrMissingClosingDay  = &AppError{Code: "MISSING_CLOSING_DAY", Message: "Credit card account has no closing day configured", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound   = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse      = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict}
	ErrSelfParentCategory = &AppError{Code: "SELF_PARENT_CATEGORY", Message: "A category cannot be its own parent", StatusCode: http.StatusBadRequest}
)

// Transaction and series errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrSeriesNotFound         = &AppError{Code: "SERIES_NOT_FOUND", Message: "Transaction series not found", StatusCode: http.StatusNotFound}
	ErrSeriesIntegrity        = &AppError{Code: "SERIES_INTEGRITY", Message: "Transaction has inconsistent series fields", StatusCode: http.StatusConflict}
)

// Statement import errors.
var (
	ErrStatementParse       = &AppError{Code: "STATEMENT_PARSE_FAILED", Message: "Statement file is malformed or unsupported", StatusCode: http.StatusUnprocessableEntity}
	ErrImportSessionGone    = &AppError{Code: "IMPORT_SESSION_NOT_FOUND", Message: "Import session not found or already closed", StatusCode: http.StatusNotFound}
	ErrEmptySelection       = &AppError{Code: "EMPTY_SELECTION", Message: "No candidates selected for import", StatusCode: http.StatusBadRequest}
	ErrImportCommitConflict = &AppError{Code: "IMPORT_COMMIT_CONFLICT", Message: "Import was rejected by the store", StatusCode: http.StatusConflict}
)
