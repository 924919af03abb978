package domain

import "sync/atomic"

// Member represents one connection's participation in a room.
// No transport or lifecycle logic here.
type Member struct {
	Role Role
	Name string

	ended atomic.Bool
}

// NewHost builds the member record for an authenticated host.
func NewHost() *Member {
	return &Member{Role: RoleHost}
}

// NewViewer normalizes the self-reported display name.
func NewViewer(rawName string) *Member {
	return &Member{Role: RoleViewer, Name: ViewerName(rawName)}
}

// MarkEnded flips the host's ended flag. It reports false when the flag
// was already set or the member is not a host.
func (m *Member) MarkEnded() bool {
	if m.Role != RoleHost {
		return false
	}
	return m.ended.CompareAndSwap(false, true)
}

func (m *Member) Ended() bool { return m.ended.Load() }
