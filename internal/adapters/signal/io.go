package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Meetcast/internal/app/orch"
	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(c *WsSignalConn) {
	defer func() { _ = c.conn.Close() }()
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
			log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Err(err).Str("module", "signal").Msg("writePump write error")
			return
		}
	}
	log.Debug().Str("module", "signal").Msg("writePump channel closed")
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(c.writeWait))
}

func (ctl *SignalWSController) readPump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		c.Close()
	}()

	c.conn.SetPongHandler(func(string) error {
		ctl.Orch.Touch(sid)
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, sid, data)
		}
	}
}

// handleSignal drops malformed payloads and state-invalid events silently.
func (ctl *SignalWSController) handleSignal(ctx context.Context, sid core.SessionID, data []byte) {
	msg, err := Decode(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("dropped message")
		return
	}

	switch m := msg.(type) {
	case JoinMessage:
		err = ctl.Orch.HandleJoin(ctx, sid, orch.JoinRequest{Code: m.Code, Role: m.Role, Token: m.Token, Name: m.Name})
	case EndMeetingMessage:
		err = ctl.Orch.HandleEndMeeting(sid)
	case PauseStreamMessage:
		err = ctl.Orch.HandlePauseStream(sid)
	case ResumeStreamMessage:
		err = ctl.Orch.HandleResumeStream(sid)
	case PingMessage:
		ctl.Orch.HandlePing(sid)
	default:
		log.Warn().Str("module", "signal").Str("type", string(msg.Type())).Msg("unhandled message")
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("type", string(msg.Type())).Msg("ignored in current state")
	}
}
