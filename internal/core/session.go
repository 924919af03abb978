package core

import (
	"sync"
	"sync/atomic"

	"github.com/dkeye/Meetcast/internal/domain"
)

type SessionID string

// State is the lifecycle position of one connection.
type State uint8

const (
	StateIdle State = iota
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MemberSession binds domain.Member and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Meta() *domain.Member
	Signal() SignalConnection
	// MarkDead clears the liveness flag so the next sweep reaps the connection.
	MarkDead()
}

// Session is the per-connection state machine: Idle -> Joined -> Closed.
// Liveness is tracked here, not on the transport.
type Session struct {
	id    SessionID
	conn  SignalConnection
	alive atomic.Bool

	member atomic.Pointer[domain.Member]

	mu    sync.Mutex
	state State
	code  domain.MeetingCode
}

func NewSession(id SessionID, conn SignalConnection) *Session {
	s := &Session{id: id, conn: conn}
	s.alive.Store(true)
	return s
}

func (s *Session) ID() SessionID            { return s.id }
func (s *Session) Signal() SignalConnection { return s.conn }

// Meta is nil until the session joins. It never changes afterwards.
func (s *Session) Meta() *domain.Member { return s.member.Load() }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Joined returns the member and room of a joined session.
func (s *Session) Joined() (*domain.Member, domain.MeetingCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateJoined {
		return nil, "", false
	}
	return s.member.Load(), s.code, true
}

// Join promotes an idle session. admit runs under the session lock so a
// concurrent Close observes either Idle (nothing inserted) or Joined.
// If admit fails the session stays Idle.
func (s *Session) Join(member *domain.Member, code domain.MeetingCode, admit func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return domain.ErrInvalidTransition
	}
	s.member.Store(member)
	s.code = code
	if err := admit(); err != nil {
		s.member.Store(nil)
		s.code = ""
		return err
	}
	s.state = StateJoined
	return nil
}

// Departure describes what a closing session leaves behind.
type Departure struct {
	Member    *domain.Member
	Code      domain.MeetingCode
	WasJoined bool
}

// Close moves the session to Closed. Only the first call reports ok.
func (s *Session) Close() (Departure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return Departure{}, false
	}
	d := Departure{Member: s.member.Load(), Code: s.code, WasJoined: s.state == StateJoined}
	s.state = StateClosed
	return d, true
}

func (s *Session) MarkAlive()  { s.alive.Store(true) }
func (s *Session) MarkDead()   { s.alive.Store(false) }
func (s *Session) Alive() bool { return s.alive.Load() }

// ClearAlive resets the flag before a ping and reports whether the
// previous cycle was acknowledged.
func (s *Session) ClearAlive() bool { return s.alive.CompareAndSwap(true, false) }
