package signal

import (
	"testing"

	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJoin(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"join","meetingCode":"ABC","role":"host","token":"secret"}`))
	require.NoError(t, err)
	assert.Equal(t, JoinMessage{Code: "ABC", Role: domain.RoleHost, Token: "secret"}, msg)

	msg, err = Decode([]byte(`{"type":"join","meetingCode":"ABC","role":"viewer","name":"Alice","token":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, JoinMessage{Code: "ABC", Role: domain.RoleViewer, Name: "Alice"}, msg)

	msg, err = Decode([]byte(`{"type":"join","meetingCode":"ABC","role":"host"}`))
	require.NoError(t, err)
	assert.Equal(t, JoinMessage{Code: "ABC", Role: domain.RoleHost}, msg)

	msg, err = Decode([]byte(`{"type":"join","meetingCode":"ABC","role":"viewer"}`))
	require.NoError(t, err)
	assert.Equal(t, "", msg.(JoinMessage).Name)
}

func TestDecodeControl(t *testing.T) {
	cases := map[string]Inbound{
		`{"type":"end_meeting"}`:   EndMeetingMessage{},
		`{"type":"pause_stream"}`:  PauseStreamMessage{},
		`{"type":"resume_stream"}`: ResumeStreamMessage{},
		`{"type":"ping"}`:          PingMessage{},
	}
	for raw, want := range cases {
		got, err := Decode([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{}`,
		`{"type":"dance"}`,
		`{"type":"join","role":"viewer"}`,
		`{"type":"join","meetingCode":"ABC"}`,
		`{"type":"join","meetingCode":"ABC","role":"admin"}`,
		`{"type":"join","meetingCode":"ABC","role":"viewer","name":42}`,
	} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, domain.ErrMalformedMessage, raw)
	}
}
