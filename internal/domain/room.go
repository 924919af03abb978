package domain

// MeetingCode is the opaque identifier shared by a host and its viewers.
type MeetingCode string

type Room struct {
	Code MeetingCode
}
