package errors

import (
	"errors"
	"fmt"
)

// Category sentinels. Every error the library returns wraps exactly one of
// these, so callers can classify with errors.Is without matching messages.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrIntegrity  = errors.New("integrity violation")
)

// Common error types for better error handling
var (
	// Validation errors
	ErrInvalidID           = fmt.Errorf("%w: identifier must be non-zero", ErrValidation)
	ErrInvalidVolume       = fmt.Errorf("%w: volume must be between 0 and 1000", ErrValidation)
	ErrInvalidAutoplay     = fmt.Errorf("%w: autoplay must be enabled, disabled or partial", ErrValidation)
	ErrEmptyPlaylistName   = fmt.Errorf("%w: playlist name cannot be empty", ErrValidation)
	ErrPlaylistNameTooLong = fmt.Errorf("%w: playlist name too long (max 100 characters)", ErrValidation)
	ErrEmptyTrackURL       = fmt.Errorf("%w: track URL cannot be empty", ErrValidation)
	ErrEmptyTrackTitle     = fmt.Errorf("%w: track title cannot be empty", ErrValidation)
	ErrNegativeDuration    = fmt.Errorf("%w: track duration cannot be negative", ErrValidation)
	ErrInvalidURL          = fmt.Errorf("%w: invalid URL", ErrValidation)

	// Not-found errors
	ErrGuildNotFound    = fmt.Errorf("%w: guild", ErrNotFound)
	ErrMemberNotFound   = fmt.Errorf("%w: member", ErrNotFound)
	ErrPlaylistNotFound = fmt.Errorf("%w: playlist", ErrNotFound)
	ErrTrackNotFound    = fmt.Errorf("%w: track", ErrNotFound)

	// Conflict errors
	ErrPlaylistExists = fmt.Errorf("%w: playlist already exists", ErrConflict)
	ErrLockTimeout    = fmt.Errorf("%w: timed out waiting for playlist lock", ErrConflict)

	// Integrity errors. These indicate a broken cascade and are never
	// recovered; the enclosing transaction must abort.
	ErrOrphanedRow = fmt.Errorf("%w: orphaned row detected", ErrIntegrity)
)

// UserError wraps an error with a user-friendly message
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string {
	return e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) UserMessage() string {
	return e.Message
}

// NewUserError creates a new user error
func NewUserError(err error, message string) *UserError {
	return &UserError{
		Err:     err,
		Message: message,
	}
}

// WrapUserError wraps an error with a user-friendly message
func WrapUserError(err error, format string, args ...interface{}) *UserError {
	return &UserError{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}

// GetUserMessage extracts user-friendly message from error
func GetUserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage()
	}

	// Map common errors to user-friendly messages
	switch {
	case errors.Is(err, ErrInvalidVolume):
		return "🔊 Volume must be between 0 and 1000"
	case errors.Is(err, ErrEmptyPlaylistName), errors.Is(err, ErrPlaylistNameTooLong):
		return "📋 Please provide a playlist name (up to 100 characters)"
	case errors.Is(err, ErrPlaylistExists):
		return "📋 You already have a playlist with that name"
	case errors.Is(err, ErrPlaylistNotFound):
		return "📋 Playlist not found"
	case errors.Is(err, ErrTrackNotFound):
		return "🎵 Track not found"
	case errors.Is(err, ErrMemberNotFound):
		return "👤 User not found"
	case errors.Is(err, ErrEmptyTrackURL), errors.Is(err, ErrInvalidURL):
		return "🔗 Invalid URL. Please provide a valid link"
	case errors.Is(err, ErrLockTimeout):
		return "⏱️ The playlist is busy right now. Please try again"
	case errors.Is(err, ErrValidation):
		return "❌ Invalid input"
	default:
		return "❌ An error occurred. Please try again later"
	}
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers don't need to import both error packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
