package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound signals a missing credit account.
	ErrAccountNotFound = errors.New("credit account not found")
	// ErrInsufficientCredits signals that the daily allowance cannot cover a request.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrWriteConflict signals a concurrent ledger update collision.
	ErrWriteConflict = errors.New("ledger write conflict")
	// ErrInvalidUsage signals a malformed usage report.
	ErrInvalidUsage = errors.New("invalid usage report")

	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken signals a duplicate registration email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotWhitelisted signals a user outside the approved list.
	ErrNotWhitelisted = errors.New("user not whitelisted")

	// ErrSessionNotFound signals a missing tutoring session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUploadNotFound signals a missing uploaded document.
	ErrUploadNotFound = errors.New("upload not found")
	// ErrFileTooLarge signals an upload over the size cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrLLMProviderError signals a chat completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
)

// InsufficientCreditsError wraps ErrInsufficientCredits with the shortfall details.
type InsufficientCreditsError struct {
	Remaining int64
	Required  int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%s: %d remaining, %d required", ErrInsufficientCredits.Error(), e.Remaining, e.Required)
}

func (e *InsufficientCreditsError) Unwrap() error { return ErrInsufficientCredits }

// NewInsufficientCredits creates an insufficient credits error.
func NewInsufficientCredits(remaining, required int64) error {
	return &InsufficientCreditsError{Remaining: remaining, Required: required}
}
