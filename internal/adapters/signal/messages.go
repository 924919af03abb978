package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meetcast/internal/domain"
)

// MessageType is the "type" discriminator of an inbound message.
type MessageType string

const (
	MsgJoin         MessageType = "join"
	MsgEndMeeting   MessageType = "end_meeting"
	MsgPauseStream  MessageType = "pause_stream"
	MsgResumeStream MessageType = "resume_stream"
	MsgPing         MessageType = "ping"
)

// Inbound is one decoded client message. The set of implementations is
// closed to this package.
type Inbound interface {
	Type() MessageType
}

type JoinMessage struct {
	Code  domain.MeetingCode
	Role  domain.Role
	Token string
	Name  string
}

type (
	EndMeetingMessage   struct{}
	PauseStreamMessage  struct{}
	ResumeStreamMessage struct{}
	PingMessage         struct{}
)

func (JoinMessage) Type() MessageType         { return MsgJoin }
func (EndMeetingMessage) Type() MessageType   { return MsgEndMeeting }
func (PauseStreamMessage) Type() MessageType  { return MsgPauseStream }
func (ResumeStreamMessage) Type() MessageType { return MsgResumeStream }
func (PingMessage) Type() MessageType         { return MsgPing }

type envelope struct {
	Type        MessageType `json:"type"`
	MeetingCode string      `json:"meetingCode"`
	Role        string      `json:"role"`
	Token       string      `json:"token"`
	Name        string      `json:"name"`
}

// Decode parses one inbound message. Any error wraps domain.ErrMalformedMessage.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedMessage, err)
	}
	switch env.Type {
	case MsgJoin:
		return decodeJoin(env)
	case MsgEndMeeting:
		return EndMeetingMessage{}, nil
	case MsgPauseStream:
		return PauseStreamMessage{}, nil
	case MsgResumeStream:
		return ResumeStreamMessage{}, nil
	case MsgPing:
		return PingMessage{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrMalformedMessage, env.Type)
	}
}

func decodeJoin(env envelope) (Inbound, error) {
	if env.MeetingCode == "" {
		return nil, fmt.Errorf("%w: join without meetingCode", domain.ErrMalformedMessage)
	}
	role, err := domain.ParseRole(env.Role)
	if err != nil {
		return nil, err
	}
	msg := JoinMessage{Code: domain.MeetingCode(env.MeetingCode), Role: role}
	switch role {
	case domain.RoleHost:
		// A missing token is left to the authenticator, which rejects it.
		msg.Token = env.Token
	case domain.RoleViewer:
		msg.Name = env.Name
	}
	return msg, nil
}
