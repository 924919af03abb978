package app

import (
	"sync"

	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManager is the room registry: a room is present iff it has members.
// The manager lock only guards the map; membership changes take the
// room's own lock, so rooms never contend with each other.
type RoomManager struct {
	mu    sync.Mutex
	rooms map[domain.MeetingCode]core.RoomService
}

func NewRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[domain.MeetingCode]core.RoomService)}
}

// getOrCreate replaces a room that closed but was not yet dropped.
func (m *RoomManager) getOrCreate(code domain.MeetingCode) core.RoomService {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[code]
	if ok && !room.Closed() {
		return room
	}
	room = core.NewRoomService(&domain.Room{Code: code})
	m.rooms[code] = room
	log.Info().Str("module", "app.rooms").Str("room", string(code)).Msg("room created")
	return room
}

// Join inserts ms into the room for code, creating it on first join.
func (m *RoomManager) Join(code domain.MeetingCode, ms core.MemberSession) (core.RoomService, core.Presence) {
	for {
		room := m.getOrCreate(code)
		p, err := room.AddMember(ms)
		if err == nil {
			return room, p
		}
		// Lost the race with the last member leaving; the next
		// getOrCreate sees the room closed and replaces it.
	}
}

// Leave removes sid from the room for code and drops the room once empty.
func (m *RoomManager) Leave(code domain.MeetingCode, sid core.SessionID) (core.RoomService, core.Presence, bool) {
	m.mu.Lock()
	room, ok := m.rooms[code]
	m.mu.Unlock()
	if !ok {
		return nil, core.Presence{}, false
	}
	p, removed, empty := room.RemoveMember(sid)
	if !removed {
		return room, p, false
	}
	if empty {
		m.drop(code, room)
	}
	return room, p, true
}

func (m *RoomManager) drop(code domain.MeetingCode, room core.RoomService) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[code] == room {
		delete(m.rooms, code)
		log.Info().Str("module", "app.rooms").Str("room", string(code)).Msg("room removed")
	}
}

// Get returns an open room.
func (m *RoomManager) Get(code domain.MeetingCode) (core.RoomService, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[code]
	if !ok || room.Closed() {
		return nil, false
	}
	return room, true
}

func (m *RoomManager) List() []core.RoomInfo {
	m.mu.Lock()
	rooms := make([]core.RoomService, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		members := r.Snapshot()
		if len(members) == 0 {
			continue
		}
		out = append(out, core.RoomInfo{
			Code:        r.Room().Code,
			MemberCount: len(members),
			ViewerCount: core.ViewerCount(members),
		})
	}
	return out
}

// Len counts open rooms.
func (m *RoomManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rooms {
		if !r.Closed() {
			n++
		}
	}
	return n
}
