package core

import (
	"sync"

	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room    *domain.Room
	mu      sync.RWMutex
	members []MemberSession
	bySID   map[SessionID]MemberSession
	closed  bool
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:  room,
		bySID: make(map[SessionID]MemberSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func (r *roomImpl) Presence() Presence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return PresenceOf(r.members)
}

func (r *roomImpl) Snapshot() []MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSession, len(r.members))
	copy(out, r.members)
	return out
}

func (r *roomImpl) AddMember(ms MemberSession) (Presence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Presence{}, ErrRoomClosed
	}
	sid := ms.ID()
	if _, ok := r.bySID[sid]; !ok {
		r.bySID[sid] = ms
		r.members = append(r.members, ms)
		log.Info().Str("module", "core.room").Str("room", string(r.room.Code)).Str("sid", string(sid)).
			Str("role", ms.Meta().Role.String()).Msg("member added")
	}
	return PresenceOf(r.members), nil
}

func (r *roomImpl) RemoveMember(sid SessionID) (Presence, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bySID[sid]
	if ok {
		delete(r.bySID, sid)
		for i, m := range r.members {
			if m.ID() == sid {
				r.members = append(r.members[:i], r.members[i+1:]...)
				break
			}
		}
		log.Info().Str("module", "core.room").Str("room", string(r.room.Code)).Str("sid", string(sid)).Msg("member removed")
	}
	empty := len(r.members) == 0
	if empty {
		r.closed = true
	}
	return PresenceOf(r.members), ok, empty
}

func (r *roomImpl) Broadcast(exclude SessionID, data Frame) PublishResult {
	return r.fanout(data, func(m MemberSession) bool { return m.ID() != exclude })
}

func (r *roomImpl) BroadcastRole(role domain.Role, data Frame) PublishResult {
	return r.fanout(data, func(m MemberSession) bool { return m.Meta().Role == role })
}

// fanout snapshots membership under the read lock and sends outside it,
// so a slow client never holds up other room operations.
func (r *roomImpl) fanout(data Frame, include func(MemberSession) bool) PublishResult {
	res := PublishResult{}
	for _, m := range r.Snapshot() {
		if !include(m) {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			m.MarkDead()
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Code)).Int("sent_to", res.SendTo).
		Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
