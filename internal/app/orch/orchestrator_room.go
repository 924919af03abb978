package orch

import (
	"context"
	"errors"

	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
)

type JoinRequest struct {
	Code  domain.MeetingCode
	Role  domain.Role
	Token string
	Name  string
}

// HandleJoin runs Idle -> Joined. A join from any other state is ignored.
// A rejected host is told why and closed.
func (o *Orchestrator) HandleJoin(ctx context.Context, sid core.SessionID, req JoinRequest) error {
	sess, ok := o.Registry.Get(sid)
	if !ok || sess.State() != core.StateIdle {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("join ignored")
		return domain.ErrInvalidTransition
	}
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Str("room", string(req.Code)).
		Str("role", req.Role.String()).Logger()

	var member *domain.Member
	switch req.Role {
	case domain.RoleHost:
		if err := o.Auth.Authenticate(ctx, req.Code, req.Token); err != nil {
			o.reject(sess, err)
			return err
		}
		member = domain.NewHost()
	case domain.RoleViewer:
		member = domain.NewViewer(req.Name)
	default:
		return domain.ErrMalformedMessage
	}

	var (
		room core.RoomService
		p    core.Presence
	)
	err := sess.Join(member, req.Code, func() error {
		room, p = o.Rooms.Join(req.Code, sess)
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Msg("join dropped, session no longer idle")
		return err
	}
	logger.Info().Str("name", member.Name).Int("viewers", p.Count).Msg("joined")
	o.announceJoin(sess, room, p)
	return nil
}

// announceJoin runs after the session lock is released. A close racing in
// from the liveness monitor may already have published viewer_left; the
// join is not announced then. Members get no ordering guarantee between
// the two.
func (o *Orchestrator) announceJoin(sess *core.Session, room core.RoomService, p core.Presence) {
	member, _, joined := sess.Joined()
	if !joined {
		log.Debug().Str("module", "orch").Str("sid", string(sess.ID())).Msg("closed before join was announced")
		return
	}
	o.unicast(sess, domain.NewViewerCount(p.Count, p.Viewers))
	switch member.Role {
	case domain.RoleViewer:
		o.publish(room, sess.ID(), domain.NewViewerJoined(p.Count, member.Name, p.Viewers))
	case domain.RoleHost:
		o.publishRole(room, domain.RoleViewer, domain.NewNotice(domain.EventHostReconnected))
	}
}

func (o *Orchestrator) reject(sess *core.Session, err error) {
	if errors.Is(err, domain.ErrAuthFailed) {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sess.ID())).Msg("host join failed")
	} else {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(sess.ID())).Msg("host join rejected")
	}
	o.unicast(sess, domain.NewErrorEvent(domain.RejectionMessage(err)))
	o.Terminate(sess.ID())
}
