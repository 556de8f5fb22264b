package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeStartMissing      = "START_NODE_MISSING"
	ErrCodeJumpTarget        = "JUMP_TARGET_MISSING"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeStore             = "STORE_ERROR"
)

// StoryError is the structured error type for all engine operations.
// A broken story graph surfaces one of these through the error event
// channel; it never takes the host process down.
type StoryError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	NodeID  string         `json:"node_id,omitempty"`
	Cause   error          `json:"-"`
}

func (e *StoryError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *StoryError) Unwrap() error {
	return e.Cause
}

// NewError creates a new StoryError.
func NewError(code, message string) *StoryError {
	return &StoryError{Code: code, Message: message}
}

// NewErrorf creates a new StoryError with a formatted message.
func NewErrorf(code, format string, args ...any) *StoryError {
	return &StoryError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithNode attaches a node ID to the error.
func (e *StoryError) WithNode(nodeID string) *StoryError {
	e.NodeID = nodeID
	return e
}

// WithCause attaches an underlying cause.
func (e *StoryError) WithCause(err error) *StoryError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *StoryError) WithDetails(details map[string]any) *StoryError {
	e.Details = details
	return e
}
