package app

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// MeetingStore is the external meeting record lookup.
type MeetingStore interface {
	LookupHostToken(ctx context.Context, code domain.MeetingCode) (token string, exists bool, err error)
}

// HostAuthenticator admits a host only if the presented token matches the
// stored one. Store failures never admit.
type HostAuthenticator struct {
	Store    MeetingStore
	Attempts *AttemptLimiter
}

func NewHostAuthenticator(store MeetingStore, attempts *AttemptLimiter) *HostAuthenticator {
	return &HostAuthenticator{Store: store, Attempts: attempts}
}

// Authenticate returns nil, an error matching domain.ErrAuthRejected, or
// one matching domain.ErrAuthFailed. A matching token is always admitted;
// only failures count toward the attempt limit.
func (a *HostAuthenticator) Authenticate(ctx context.Context, code domain.MeetingCode, presented string) error {
	logger := log.With().Str("module", "app.hostauth").Str("room", string(code)).Logger()

	stored, exists, err := a.Store.LookupHostToken(ctx, code)
	if err != nil {
		logger.Error().Err(err).Msg("host auth failed: meeting store unavailable")
		return fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	}
	if !exists {
		logger.Info().Msg("host rejected: meeting not found")
		return a.failed(code, domain.ErrMeetingNotFound)
	}
	if presented == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		logger.Info().Msg("host rejected: invalid token")
		return a.failed(code, domain.ErrInvalidToken)
	}
	logger.Info().Msg("host authorized")
	return nil
}

// failed records a rejection. Past the limit the reason is hidden behind
// ErrTooManyAttempts so guessing clients learn nothing more.
func (a *HostAuthenticator) failed(code domain.MeetingCode, reason error) error {
	if a.Attempts.RecordFailure(code) {
		return reason
	}
	log.Warn().Str("module", "app.hostauth").Str("room", string(code)).Msg("host attempt limit reached")
	return domain.ErrTooManyAttempts
}
