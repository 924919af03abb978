package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubStore struct {
	tokens map[domain.MeetingCode]string
	err    error
	calls  int
}

func (s *stubStore) LookupHostToken(_ context.Context, code domain.MeetingCode) (string, bool, error) {
	s.calls++
	if s.err != nil {
		return "", false, s.err
	}
	t, ok := s.tokens[code]
	return t, ok, nil
}

func TestHostAuthenticator(t *testing.T) {
	store := &stubStore{tokens: map[domain.MeetingCode]string{"ABC": "secret"}}
	auth := NewHostAuthenticator(store, nil)
	ctx := context.Background()

	assert.NoError(t, auth.Authenticate(ctx, "ABC", "secret"))

	err := auth.Authenticate(ctx, "ABC", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.ErrorIs(t, err, domain.ErrAuthRejected)

	assert.ErrorIs(t, auth.Authenticate(ctx, "ABC", ""), domain.ErrInvalidToken)
	assert.ErrorIs(t, auth.Authenticate(ctx, "NOPE", "secret"), domain.ErrMeetingNotFound)
}

func TestHostAuthenticatorStoreFailure(t *testing.T) {
	down := errors.New("connection refused")
	auth := NewHostAuthenticator(&stubStore{err: down}, nil)

	err := auth.Authenticate(context.Background(), "ABC", "secret")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, domain.ErrAuthRejected)
}

func TestHostAuthenticatorAttemptLimitCountsOnlyFailures(t *testing.T) {
	store := &stubStore{tokens: map[domain.MeetingCode]string{"ABC": "secret"}}
	auth := NewHostAuthenticator(store, NewAttemptLimiter(2, time.Minute))
	ctx := context.Background()

	assert.NoError(t, auth.Authenticate(ctx, "ABC", "secret"))
	assert.NoError(t, auth.Authenticate(ctx, "ABC", "secret"))
	assert.NoError(t, auth.Authenticate(ctx, "ABC", "secret"), "successful joins are not counted")

	assert.ErrorIs(t, auth.Authenticate(ctx, "ABC", "x"), domain.ErrInvalidToken)
	assert.ErrorIs(t, auth.Authenticate(ctx, "ABC", "y"), domain.ErrInvalidToken)

	err := auth.Authenticate(ctx, "ABC", "z")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	assert.ErrorIs(t, err, domain.ErrAuthRejected)

	assert.NoError(t, auth.Authenticate(ctx, "ABC", "secret"), "the real host is never locked out")
}

func TestHostAuthenticatorAttemptLimitOnUnknownMeeting(t *testing.T) {
	auth := NewHostAuthenticator(&stubStore{tokens: map[domain.MeetingCode]string{}}, NewAttemptLimiter(1, time.Minute))
	ctx := context.Background()

	assert.ErrorIs(t, auth.Authenticate(ctx, "NOPE", "x"), domain.ErrMeetingNotFound)
	assert.ErrorIs(t, auth.Authenticate(ctx, "NOPE", "x"), domain.ErrTooManyAttempts)
}
