package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// NewAuthError creates an error for missing or rejected provider credentials.
func NewAuthError(provider string, cause error) error {
	return types.WrapError(
		types.PROVIDER_UNAUTHORIZED,
		fmt.Sprintf("provider %q is missing valid credentials", provider),
		cause,
	)
}

// NewParseError creates an error for model output that could not be decoded
// even after repair. Stages must recover from this locally; it never
// escapes a stage boundary as an exception.
func NewParseError(message string, cause error) error {
	return types.WrapError(types.COMPLETION_PARSE_FAILED, message, cause)
}

// TranslateError converts a transport-level provider error into the
// completion-port error taxonomy. Timeouts and rate limits are marked
// retryable; everything else is a plain completion failure.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf("provider %q completion failed", provider)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &types.ForgeError{
			Code:      types.COMPLETION_FAILED,
			Message:   msg,
			Retryable: true,
			Cause:     err,
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unauthorized"), strings.Contains(lower, "api key"), strings.Contains(lower, "401"):
		return NewAuthError(provider, err)
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "429"),
		strings.Contains(lower, "timeout"), strings.Contains(lower, "connection"):
		return &types.ForgeError{
			Code:      types.COMPLETION_FAILED,
			Message:   msg,
			Retryable: true,
			Cause:     err,
		}
	default:
		return types.WrapError(types.COMPLETION_FAILED, msg, err)
	}
}

// IsRetryable determines if an error is transient and may succeed on retry.
func IsRetryable(err error) bool {
	var forgeErr *types.ForgeError
	if !errors.As(err, &forgeErr) {
		return false
	}
	return forgeErr.Retryable
}

// IsCompletionError reports whether err is a completion transport failure.
func IsCompletionError(err error) bool {
	return types.HasCode(err, types.COMPLETION_FAILED) ||
		types.HasCode(err, types.PROVIDER_UNAUTHORIZED)
}

// IsParseError reports whether err is a model-output parsing failure.
func IsParseError(err error) bool {
	return types.HasCode(err, types.COMPLETION_PARSE_FAILED)
}
