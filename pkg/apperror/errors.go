package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Marketplace Business Logic (MKT) ----

func ErrInvalidPrice() *AppError {
	return New("MKT_001", "Listing price must be positive", http.StatusBadRequest)
}

func ErrListingNotFound() *AppError {
	return New("MKT_002", "No active listing for this asset", http.StatusNotFound)
}

func ErrNotSeller() *AppError {
	return New("MKT_003", "Only the seller may cancel this listing", http.StatusForbidden)
}

func ErrInsufficientPayment() *AppError {
	return New("MKT_004", "Payment is below the listing price", http.StatusPaymentRequired)
}

func ErrUnauthorized() *AppError {
	return New("MKT_005", "Only the marketplace operator may withdraw fees", http.StatusForbidden)
}

func ErrInsufficientFeeBalance() *AppError {
	return New("MKT_006", "Withdrawal amount exceeds fee vault balance", http.StatusUnprocessableEntity)
}

func ErrNoPendingPayout() *AppError {
	return New("MKT_007", "No pending payout for this account", http.StatusNotFound)
}

// ---- Asset Records (AST) ----

func ErrAssetNotFound() *AppError {
	return New("AST_001", "Asset not found", http.StatusNotFound)
}

func ErrNotAssetOwner() *AppError {
	return New("AST_002", "Caller does not own this asset", http.StatusForbidden)
}

func ErrAssetAlreadyListed() *AppError {
	return New("AST_003", "Asset is held in escrow by an active listing", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
