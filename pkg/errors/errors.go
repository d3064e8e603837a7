// Package errors provides structured error handling for BoltZap.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess     = 0 // Successful execution
	ExitGeneral     = 1 // General/unknown error
	ExitInput       = 2 // Invalid input
	ExitNode        = 3 // Settlement node call failed
	ExitNotFound    = 4 // Resource not found
	ExitPrecondFail = 5 // Operation precondition not met
)

// WalletError is the structured error type for BoltZap.
type WalletError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *WalletError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *WalletError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for WalletError.
func (e *WalletError) Is(target error) bool {
	var t *WalletError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &WalletError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &WalletError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &WalletError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &WalletError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount",
		ExitCode: ExitInput,
	}

	// Node lifecycle errors.
	ErrNotConnected = &WalletError{
		Code:     "NOT_CONNECTED",
		Message:  "wallet is not connected to the settlement node",
		ExitCode: ExitPrecondFail,
	}

	ErrNodeCallFailed = &WalletError{
		Code:     "NODE_CALL_FAILED",
		Message:  "settlement node call failed",
		ExitCode: ExitNode,
	}

	// Retryable marks transient node failures that may succeed on re-attempt.
	ErrRetryable = &WalletError{
		Code:     "RETRYABLE_ERROR",
		Message:  "retryable error",
		ExitCode: ExitNode,
	}

	ErrKeychainUnavailable = &WalletError{
		Code:     "KEYCHAIN_UNAVAILABLE",
		Message:  "no credential store is available for the wallet seed",
		ExitCode: ExitGeneral,
	}

	// Payment errors.
	ErrUnsupportedDestination = &WalletError{
		Code:     "UNSUPPORTED_DESTINATION",
		Message:  "destination cannot be paid by this wallet",
		ExitCode: ExitInput,
	}

	ErrAmountOutOfRange = &WalletError{
		Code:     "AMOUNT_OUT_OF_RANGE",
		Message:  "amount is outside the accepted range",
		ExitCode: ExitInput,
	}

	ErrAmountRequired = &WalletError{
		Code:     "AMOUNT_REQUIRED",
		Message:  "amount is required for this destination",
		ExitCode: ExitInput,
	}

	ErrAlreadyExecuted = &WalletError{
		Code:     "ALREADY_EXECUTED",
		Message:  "prepared payment was already executed",
		ExitCode: ExitPrecondFail,
	}

	// Receive errors.
	ErrNoOffer = &WalletError{
		Code:     "NO_OFFER",
		Message:  "no receive offer is active",
		ExitCode: ExitNotFound,
	}
)

// New creates a new WalletError with the given code and message.
func New(code, message string) *WalletError {
	return &WalletError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    fmt.Sprintf("%s: %s", msg, we.Message),
			Details:    we.Details,
			Suggestion: we.Suggestion,
			Cause:      err,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    details,
			Suggestion: we.Suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    we.Details,
			Suggestion: suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var we *WalletError
	if errors.As(err, &we) {
		return we.ExitCode
	}

	return ExitGeneral
}
