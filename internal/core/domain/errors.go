package domain

import "errors"

// Sentinel errors for the authentication flow. The API layer maps each one to
// a deterministic HTTP status in internal/api/error_handler.go.
var (
	ErrEmailRequired       = errors.New("email is required")
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrPurchaseNotFound    = errors.New("no purchase found for this email")
	ErrPurchaseInactive    = errors.New("purchase is not active")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("a password is already set for this email")
	ErrWrongPassword       = errors.New("wrong password")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
)
