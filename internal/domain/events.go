package domain

// EventType names an outbound event on the wire.
type EventType string

const (
	EventViewerCount      EventType = "viewer_count"
	EventViewerJoined     EventType = "viewer_joined"
	EventViewerLeft       EventType = "viewer_left"
	EventHostReconnected  EventType = "host_reconnected"
	EventHostDisconnected EventType = "host_disconnected"
	EventMeetingEnded     EventType = "meeting_ended"
	EventStreamPaused     EventType = "stream_paused"
	EventStreamResumed    EventType = "stream_resumed"
	EventError            EventType = "error"
	EventPong             EventType = "pong"
)

// Event is any coordinator -> connection message.
type Event interface {
	EventType() EventType
}

type ViewerCount struct {
	Type    EventType `json:"type"`
	Count   int       `json:"count"`
	Viewers []string  `json:"viewers"`
}

func (e ViewerCount) EventType() EventType { return EventViewerCount }

type ViewerJoined struct {
	Type    EventType `json:"type"`
	Count   int       `json:"count"`
	Name    string    `json:"name"`
	Viewers []string  `json:"viewers"`
}

func (e ViewerJoined) EventType() EventType { return EventViewerJoined }

type ViewerLeft struct {
	Type    EventType `json:"type"`
	Count   int       `json:"count"`
	Name    string    `json:"name"`
	Viewers []string  `json:"viewers"`
}

func (e ViewerLeft) EventType() EventType { return EventViewerLeft }

// Notice is a payload-free event (host_reconnected, meeting_ended, ...).
type Notice struct {
	Type EventType `json:"type"`
}

func (e Notice) EventType() EventType { return e.Type }

type ErrorEvent struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

func (e ErrorEvent) EventType() EventType { return EventError }

func NewViewerCount(count int, viewers []string) ViewerCount {
	return ViewerCount{Type: EventViewerCount, Count: count, Viewers: nonNil(viewers)}
}

func NewViewerJoined(count int, name string, viewers []string) ViewerJoined {
	return ViewerJoined{Type: EventViewerJoined, Count: count, Name: name, Viewers: nonNil(viewers)}
}

func NewViewerLeft(count int, name string, viewers []string) ViewerLeft {
	return ViewerLeft{Type: EventViewerLeft, Count: count, Name: name, Viewers: nonNil(viewers)}
}

func NewNotice(t EventType) Notice { return Notice{Type: t} }

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

// nonNil keeps empty viewer lists encoded as [] instead of null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
