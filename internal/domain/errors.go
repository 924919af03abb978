package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRejected covers every host admission refusal caused by the
	// presented credential or meeting code.
	ErrAuthRejected    = errors.New("auth rejected")
	ErrMeetingNotFound = fmt.Errorf("%w: meeting not found", ErrAuthRejected)
	ErrInvalidToken    = fmt.Errorf("%w: invalid host token", ErrAuthRejected)
	ErrTooManyAttempts = fmt.Errorf("%w: too many attempts", ErrAuthRejected)

	// ErrAuthFailed means the meeting record store could not answer.
	ErrAuthFailed = errors.New("auth failed")

	ErrMalformedMessage  = errors.New("malformed message")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrBackpressure      = errors.New("backpressure")
	ErrConnectionClosed  = errors.New("connection closed")
)

// RejectionMessage is the text sent to a host whose join was refused.
func RejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrMeetingNotFound):
		return "meeting not found"
	case errors.Is(err, ErrInvalidToken):
		return "invalid host token"
	case errors.Is(err, ErrTooManyAttempts):
		return "too many attempts"
	default:
		return "authentication failed"
	}
}
