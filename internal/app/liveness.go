package app

import (
	"context"
	"time"

	"github.com/dkeye/Meetcast/internal/core"
	"github.com/rs/zerolog/log"
)

// LivenessMonitor pings every connection once per interval and terminates
// those that did not acknowledge the previous ping.
type LivenessMonitor struct {
	Registry *Registry
	Interval time.Duration
	// Terminate must run the normal close path for sid.
	Terminate func(sid core.SessionID)
	// OnSweep runs after each cycle. Optional.
	OnSweep func()
}

func (m *LivenessMonitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.Interval)
	defer t.Stop()
	log.Info().Str("module", "app.liveness").Dur("interval", m.Interval).Msg("liveness monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.liveness").Msg("liveness monitor stopped")
			return nil
		case <-t.C:
			m.Sweep()
		}
	}
}

// Sweep runs one cycle and returns how many connections were reaped.
func (m *LivenessMonitor) Sweep() int {
	reaped := 0
	for _, s := range m.Registry.Sessions() {
		if !s.ClearAlive() {
			log.Warn().Str("module", "app.liveness").Str("sid", string(s.ID())).Msg("missed heartbeat, terminating")
			m.Terminate(s.ID())
			reaped++
			continue
		}
		if err := s.Signal().Ping(); err != nil {
			log.Debug().Err(err).Str("module", "app.liveness").Str("sid", string(s.ID())).Msg("ping failed")
		}
	}
	if m.OnSweep != nil {
		m.OnSweep()
	}
	return reaped
}
