package assistant

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the completion provider credential is absent.
	ErrNotConfigured = errors.New("assistant: completion provider not configured")
	// ErrEmptyCompletion means the provider returned a success with no text.
	ErrEmptyCompletion = errors.New("assistant: provider returned empty completion")
	// ErrEmptyMessage means the caller supplied no message text.
	ErrEmptyMessage = errors.New("assistant: message text required")
)

// UpstreamError is a non-success response from the completion provider.
// Body is kept for server-side diagnostics and must never reach the end user.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("assistant: upstream returned status %d", e.StatusCode)
	}
	return "assistant: upstream request failed"
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
