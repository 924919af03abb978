package core

import (
	"errors"

	"github.com/dkeye/Meetcast/internal/domain"
)

// ErrRoomClosed is returned when a member is added to a room that already
// emptied out and is being dropped from the manager.
var ErrRoomClosed = errors.New("room closed")

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// Presence is the viewer view of a room at one instant.
type Presence struct {
	Count   int      `json:"count"`
	Viewers []string `json:"viewers"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources
// beyond non-blocking sends.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	Presence() Presence
	Snapshot() []MemberSession
	Closed() bool

	// AddMember is idempotent per session id.
	AddMember(ms MemberSession) (Presence, error)
	// RemoveMember reports whether the session was present and whether the
	// room is now empty. An empty room is closed for good.
	RemoveMember(sid SessionID) (p Presence, removed, empty bool)

	Broadcast(exclude SessionID, data Frame) PublishResult
	BroadcastRole(role domain.Role, data Frame) PublishResult
}

type RoomInfo struct {
	Code        domain.MeetingCode `json:"code"`
	MemberCount int                `json:"member_count"`
	ViewerCount int                `json:"viewer_count"`
}
