package common

import "errors"

var (
	// Local input errors. Never reach the network.
	ErrValidation = errors.New("validation error")

	// Registration with an email that already exists in the registry.
	ErrConflict = errors.New("conflict")

	// Credentials or current password rejected by the backend, or no session.
	ErrAuthentication = errors.New("authentication failed")

	// Id absent from a local registry or from the backend.
	ErrNotFound = errors.New("not found")

	// Order status change outside the allowed Pending -> Cancelled transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Transport-level failures: backend unreachable, connection reset, etc.
	ErrNetwork = errors.New("network unavailable")

	// Backend answered with a non-success status or an unreadable body.
	ErrRemote = errors.New("remote error")
)

// Error is a classified failure carrying a user-facing message.
//
// Kind is one of the sentinels above and is what errors.Is matches against.
// Status holds the HTTP status when the failure was reported by the backend;
// such errors additionally match ErrRemote.
type Error struct {
	Kind    error
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func (e *Error) Is(target error) bool {
	return e.Status != 0 && target == ErrRemote
}

// NewError builds an *Error of the given kind with a message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the user-facing message of err. Backend messages are
// returned verbatim; anything else falls back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
