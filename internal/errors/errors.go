// Package errors defines the error taxonomy shared by the cqe client.
//
// Three kinds of failure are distinguished:
//   - ValidationError: user input rejected before anything is sent. The
//     message is shown next to the form and the submission is blocked.
//   - NetworkError: an API call failed (transport, non-2xx status or a
//     success=false body). Shown as a dismissible message; the caller keeps
//     its form state so the user can retry.
//   - InvalidStateError: a caller broke a state-machine precondition, e.g.
//     selecting a release with no project. Surfaces are expected to make
//     this unreachable, so it is never shown to users verbatim.
//
// None of them is fatal to the process.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors.
var (
	// ErrNotLoggedIn indicates that no session is stored.
	ErrNotLoggedIn = New("not logged in: run 'cqe login' first")
	// ErrNoProject indicates that an operation needs a selected project.
	ErrNoProject = New("no project selected")
	// ErrNoRelease indicates that an operation needs a selected release.
	ErrNoRelease = New("no release selected")
)

// ValidationError reports rejected user input.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError reports a failed API call.
type NetworkError struct {
	Op     string
	Status int
	Detail string
	cause  error
}

// NewNetworkError creates a NetworkError for op. status is 0 when no HTTP
// response was received.
func NewNetworkError(op string, status int, detail string, cause error) *NetworkError {
	return &NetworkError{Op: op, Status: status, Detail: detail, cause: cause}
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	switch {
	case e.Detail != "":
		b.WriteString(": " + e.Detail)
	case e.cause != nil:
		b.WriteString(": " + e.cause.Error())
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error { return e.cause }

// Retryable is true for transport failures and 5xx responses.
func (e *NetworkError) Retryable() bool {
	return e.Status == 0 || e.Status >= 500
}

// InvalidStateError reports a broken state-machine precondition.
type InvalidStateError struct {
	Op     string
	Reason error
}

// NewInvalidStateError creates an InvalidStateError for op.
func NewInvalidStateError(op string, reason error) *InvalidStateError {
	return &InvalidStateError{Op: op, Reason: reason}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state for %s: %v", e.Op, e.Reason)
}

func (e *InvalidStateError) Unwrap() error { return e.Reason }

// IsUserFacing reports whether err's message can be shown to users as is.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	var ne *NetworkError
	return As(err, &ve) || As(err, &ne) || Is(err, ErrNotLoggedIn)
}

// IsRetryable reports whether repeating the same request may succeed.
func IsRetryable(err error) bool {
	var ne *NetworkError
	if As(err, &ne) {
		return ne.Retryable()
	}
	return false
}

// UserMessage returns the text a surface should display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if As(err, &ve) {
		return ve.Message
	}
	var ne *NetworkError
	if As(err, &ne) {
		if ne.Detail != "" {
			return ne.Detail
		}
		return "Request failed. Please try again."
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return "An internal error occurred"
}
