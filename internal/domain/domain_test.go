package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerName(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{"Alice", "Alice"},
		{"  Bob  ", "Bob"},
		{"", AnonymousViewer},
		{"   ", AnonymousViewer},
		{strings.Repeat("x", 25), strings.Repeat("x", 20)},
		{strings.Repeat("é", 21), strings.Repeat("é", 20)},
		{"nineteen characters x", "nineteen characters"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ViewerName(tc.raw), "raw=%q", tc.raw)
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("host")
	require.NoError(t, err)
	assert.Equal(t, RoleHost, r)

	r, err = ParseRole("viewer")
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, r)
	assert.Equal(t, "viewer", r.String())

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrMalformedMessage)
	assert.False(t, Role(0).Valid())
}

func TestMarkEndedOnlyOnceAndOnlyForHosts(t *testing.T) {
	h := NewHost()
	assert.True(t, h.MarkEnded())
	assert.False(t, h.MarkEnded())
	assert.True(t, h.Ended())

	v := NewViewer("Alice")
	assert.False(t, v.MarkEnded())
	assert.False(t, v.Ended())
}

func TestRejectionMessage(t *testing.T) {
	assert.Equal(t, "meeting not found", RejectionMessage(ErrMeetingNotFound))
	assert.Equal(t, "invalid host token", RejectionMessage(ErrInvalidToken))
	assert.Equal(t, "too many attempts", RejectionMessage(ErrTooManyAttempts))
	assert.Equal(t, "authentication failed", RejectionMessage(fmt.Errorf("%w: db down", ErrAuthFailed)))

	for _, err := range []error{ErrMeetingNotFound, ErrInvalidToken, ErrTooManyAttempts} {
		assert.True(t, errors.Is(err, ErrAuthRejected))
		assert.False(t, errors.Is(err, ErrAuthFailed))
	}
}

func TestEventWireShape(t *testing.T) {
	b, err := json.Marshal(NewViewerCount(0, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"viewer_count","count":0,"viewers":[]}`, string(b))

	b, err = json.Marshal(NewViewerLeft(1, "Alice", []string{"Bob"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"viewer_left","count":1,"name":"Alice","viewers":["Bob"]}`, string(b))

	b, err = json.Marshal(NewNotice(EventHostDisconnected))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"host_disconnected"}`, string(b))

	b, err = json.Marshal(NewErrorEvent("invalid host token"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","message":"invalid host token"}`, string(b))
}
