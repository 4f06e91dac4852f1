// Package errors provides standardized error handling for the notifier.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Expected dedup conflict: someone already sent this notification.
	ErrCodeDuplicateNotification ErrorCode = "DUPLICATE_NOTIFICATION"

	ErrCodeDeliveryFailed     ErrorCode = "DELIVERY_FAILED"
	ErrCodeLedgerReadFailed   ErrorCode = "LEDGER_READ_FAILED"
	ErrCodeLedgerWriteFailed  ErrorCode = "LEDGER_WRITE_FAILED"
	ErrCodeEnumerationFailed  ErrorCode = "SUBJECT_ENUMERATION_FAILED"
	ErrCodeRecipientLookup    ErrorCode = "RECIPIENT_LOOKUP_FAILED"
	ErrCodeSuppressionFailed  ErrorCode = "SUPPRESSION_CHECK_FAILED"
	ErrCodeSweepLockHeld      ErrorCode = "SWEEP_LOCK_HELD"
	ErrCodeSweepLockUncertain ErrorCode = "SWEEP_LOCK_UNCERTAIN"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewDuplicateNotificationError marks an already-sent tuple. Non-retryable
// and expected: the caller skips delivery.
func NewDuplicateNotificationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateNotification,
		Message:   "Notification already sent for this tuple",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError creates a retryable delivery error. The tuple stays
// pending and is retried by the next sweep while the window is open.
func NewDeliveryFailedError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("kind: %s, error: %s", kind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLedgerReadFailedError creates a retryable ledger lookup error.
func NewLedgerReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerReadFailed,
		Message:   "Dedup ledger lookup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLedgerWriteFailedError marks a failed ledger insert after a successful
// send. Not retried: a duplicate send on the next sweep is the accepted
// failure mode, silent loss is not.
func NewLedgerWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerWriteFailed,
		Message:   "Dedup ledger insert failed after delivery",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewEnumerationFailedError creates a retryable subject listing error. It
// aborts the current rule kind's pass only.
func NewEnumerationFailedError(subjectKind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnumerationFailed,
		Message:   "Subject enumeration failed",
		Details:   fmt.Sprintf("subjectKind: %s, error: %s", subjectKind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRecipientLookupError creates a retryable recipient resolution error.
func NewRecipientLookupError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecipientLookup,
		Message:   "Recipient resolution failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSuppressionCheckError creates a retryable suppression query error.
func NewSuppressionCheckError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSuppressionFailed,
		Message:   "Suppression check failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSweepLockUncertainError marks a guard state that could not be read.
// The sweep is skipped and retried on the next tick.
func NewSweepLockUncertainError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSweepLockUncertain,
		Message:   "Sweep overlap guard state unknown",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}
