package service

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTransport      = errors.New("transport failure")
	ErrRemote         = errors.New("remote error")
	ErrEmptyContent   = errors.New("comment content is empty")
	// ErrStale means the comment was accepted but the local discussion
	// could not be brought up to date.
	ErrStale = errors.New("discussion is out of date")
)

const genericFailure = "Something went wrong. Please try again."

// UserMessage is what a person sees for a failed action. Remote failures
// are deliberately not told apart.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyContent):
		return "Comment cannot be empty."
	case errors.Is(err, ErrStale):
		return "Your comment was posted. Reload to see it."
	default:
		return genericFailure
	}
}
