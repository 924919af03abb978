package app

import (
	"fmt"

	"github.com/dkeye/Meetcast/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	// MarkDead leaves the connection for the next liveness sweep.
	MarkDead
	// CloseMember terminates the connection right away.
	CloseMember
)

// Policy decides what happens to a member whose send failed during a broadcast.
// The room has already cleared the member's liveness flag.
type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return p.Action
}

// PolicyFromString maps the backpressure_policy config value.
func PolicyFromString(s string) (Policy, error) {
	switch s {
	case "", "mark_dead":
		return SimplePolicy{Action: MarkDead}, nil
	case "close":
		return SimplePolicy{Action: CloseMember}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", s)
	}
}
