package orch

import (
	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// HandleEndMeeting sets the host's ended flag and tells the viewers once.
func (o *Orchestrator) HandleEndMeeting(sid core.SessionID) error {
	member, room, err := o.joinedHost(sid)
	if err != nil {
		return err
	}
	if !member.MarkEnded() {
		return domain.ErrInvalidTransition
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Room().Code)).Msg("meeting ended")
	o.publishRole(room, domain.RoleViewer, domain.NewNotice(domain.EventMeetingEnded))
	return nil
}

func (o *Orchestrator) HandlePauseStream(sid core.SessionID) error {
	return o.hostNotice(sid, domain.EventStreamPaused)
}

func (o *Orchestrator) HandleResumeStream(sid core.SessionID) error {
	return o.hostNotice(sid, domain.EventStreamResumed)
}

// HandlePing answers an application-level ping and counts as a heartbeat.
func (o *Orchestrator) HandlePing(sid core.SessionID) {
	sess, ok := o.Registry.Get(sid)
	if !ok {
		return
	}
	sess.MarkAlive()
	o.unicast(sess, domain.NewNotice(domain.EventPong))
}

func (o *Orchestrator) hostNotice(sid core.SessionID, t domain.EventType) error {
	_, room, err := o.joinedHost(sid)
	if err != nil {
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Room().Code)).
		Str("event", string(t)).Msg("host notice")
	o.publishRole(room, domain.RoleViewer, domain.NewNotice(t))
	return nil
}

func (o *Orchestrator) joinedHost(sid core.SessionID) (*domain.Member, core.RoomService, error) {
	sess, ok := o.Registry.Get(sid)
	if !ok {
		return nil, nil, domain.ErrInvalidTransition
	}
	member, code, ok := sess.Joined()
	if !ok || member.Role != domain.RoleHost {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("host control ignored")
		return nil, nil, domain.ErrInvalidTransition
	}
	room, ok := o.Rooms.Get(code)
	if !ok {
		return nil, nil, domain.ErrInvalidTransition
	}
	return member, room, nil
}
