package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for ProjectForge errors.
type ErrorCode string

// Validation error codes. Raised at construction time, before any node runs.
const (
	VALIDATION_FAILED ErrorCode = "VALIDATION_FAILED"
	STATE_INVALID     ErrorCode = "STATE_INVALID"
	PROFILE_INVALID   ErrorCode = "PROFILE_INVALID"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Workflow graph error codes. Wiring mistakes surface at Compile() time,
// routing failures during traversal.
const (
	WORKFLOW_DUPLICATE_NODE       ErrorCode = "WORKFLOW_DUPLICATE_NODE"
	WORKFLOW_INVALID_EDGE         ErrorCode = "WORKFLOW_INVALID_EDGE"
	WORKFLOW_UNREACHABLE_TERMINAL ErrorCode = "WORKFLOW_UNREACHABLE_TERMINAL"
	WORKFLOW_ROUTING_FAILED       ErrorCode = "WORKFLOW_ROUTING_FAILED"
	WORKFLOW_MAX_STEPS_EXCEEDED   ErrorCode = "WORKFLOW_MAX_STEPS_EXCEEDED"
	WORKFLOW_NODE_FAILED          ErrorCode = "WORKFLOW_NODE_FAILED"
)

// Completion port error codes
const (
	COMPLETION_FAILED       ErrorCode = "COMPLETION_FAILED"
	COMPLETION_PARSE_FAILED ErrorCode = "COMPLETION_PARSE_FAILED"
	PROVIDER_NOT_FOUND      ErrorCode = "PROVIDER_NOT_FOUND"
	PROVIDER_INIT_FAILED    ErrorCode = "PROVIDER_INIT_FAILED"
	PROVIDER_UNAUTHORIZED   ErrorCode = "PROVIDER_UNAUTHORIZED"
)

// Checkpoint error codes
const (
	CHECKPOINT_SAVE_FAILED ErrorCode = "CHECKPOINT_SAVE_FAILED"
	CHECKPOINT_LOAD_FAILED ErrorCode = "CHECKPOINT_LOAD_FAILED"
	CHECKPOINT_NOT_FOUND   ErrorCode = "CHECKPOINT_NOT_FOUND"
)

// ForgeError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints.
type ForgeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *ForgeError) Is(target error) bool {
	var forgeErr *ForgeError
	if errors.As(target, &forgeErr) {
		return e.Code == forgeErr.Code
	}
	return false
}

// NewError creates a new non-retryable ForgeError with the given code and message.
func NewError(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable ForgeError with the given code
// and message. Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable ForgeError that wraps an existing error.
func WrapError(code ErrorCode, message string, cause error) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err carries the given error code anywhere in its
// chain, including joined error trees.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	if forgeErr, ok := err.(*ForgeError); ok && forgeErr.Code == code {
		return true
	}

	switch unwrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range unwrapped.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasCode(unwrapped.Unwrap(), code)
	}

	return false
}
