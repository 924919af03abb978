package orch

import (
	"context"

	"github.com/dkeye/Meetcast/internal/app"
	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Authenticator admits hosts.
type Authenticator interface {
	Authenticate(ctx context.Context, code domain.MeetingCode, token string) error
}

// Orchestrator drives every session transition. All entry points are safe
// to call from any goroutine; inbound events of one connection are
// expected to arrive sequentially.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomManager
	Auth     Authenticator
	Policy   app.Policy
}

// Connect registers a fresh idle connection.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection) *core.Session {
	sess := core.NewSession(sid, conn)
	o.Registry.Bind(sess)
	return sess
}

// Touch records a liveness acknowledgment.
func (o *Orchestrator) Touch(sid core.SessionID) {
	if sess, ok := o.Registry.Get(sid); ok {
		sess.MarkAlive()
	}
}

// OnDisconnect is the single close transition. Every cause of a close ends
// up here; repeated calls are no-ops.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	sess, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	dep, ok := sess.Close()
	if !ok || !dep.WasJoined {
		return
	}
	room, p, removed := o.Rooms.Leave(dep.Code, sid)
	if !removed {
		return
	}
	logger := log.With().Str("module", "orch").Str("sid", string(sid)).Str("room", string(dep.Code)).Logger()

	switch dep.Member.Role {
	case domain.RoleViewer:
		logger.Info().Str("name", dep.Member.Name).Int("viewers", p.Count).Msg("viewer left")
		o.publish(room, sid, domain.NewViewerLeft(p.Count, dep.Member.Name, p.Viewers))
	case domain.RoleHost:
		if dep.Member.Ended() {
			logger.Info().Msg("host left after ending meeting")
			return
		}
		logger.Info().Msg("host disconnected")
		o.publishRole(room, domain.RoleViewer, domain.NewNotice(domain.EventHostDisconnected))
	}
}

// Terminate closes the transport and runs the close transition.
func (o *Orchestrator) Terminate(sid core.SessionID) {
	if sess, ok := o.Registry.Get(sid); ok {
		sess.Signal().Close()
	}
	o.OnDisconnect(sid)
}

// CloseAll terminates every open connection.
func (o *Orchestrator) CloseAll() {
	for _, s := range o.Registry.Sessions() {
		o.Terminate(s.ID())
	}
}

func (o *Orchestrator) Presence(code domain.MeetingCode) (core.Presence, bool) {
	room, ok := o.Rooms.Get(code)
	if !ok {
		return core.Presence{}, false
	}
	return room.Presence(), true
}

func (o *Orchestrator) RoomList() []core.RoomInfo { return o.Rooms.List() }

func (o *Orchestrator) unicast(sess *core.Session, ev domain.Event) {
	frame, err := core.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	if err := sess.Signal().TrySend(frame); err != nil {
		sess.MarkDead()
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sess.ID())).
			Str("event", string(ev.EventType())).Msg("unicast failed, connection marked dead")
	}
}

func (o *Orchestrator) publish(room core.RoomService, exclude core.SessionID, ev domain.Event) {
	frame, err := core.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	o.applyPolicy(room, ev, room.Broadcast(exclude, frame))
}

func (o *Orchestrator) publishRole(room core.RoomService, role domain.Role, ev domain.Event) {
	frame, err := core.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	o.applyPolicy(room, ev, room.BroadcastRole(role, frame))
}

func (o *Orchestrator) applyPolicy(room core.RoomService, ev domain.Event, res core.PublishResult) {
	for _, slow := range res.Dropped {
		log.Warn().Str("module", "orch").Str("room", string(room.Room().Code)).Str("sid", string(slow.ID())).
			Str("event", string(ev.EventType())).Msg("delivery failed, connection marked dead")
		if o.Policy == nil {
			continue
		}
		switch o.Policy.OnBackPressure(room, slow) {
		case app.CloseMember:
			go o.Terminate(slow.ID())
		case app.MarkDead, app.NoAction:
		}
	}
}
