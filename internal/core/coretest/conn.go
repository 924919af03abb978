// Package coretest provides a recording SignalConnection for tests.
package coretest

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
)

// Conn records every frame it accepts.
type Conn struct {
	mu      sync.Mutex
	frames  []core.Frame
	closed  bool
	pings   int
	sendErr error
	pingErr error
}

func NewConn() *Conn { return &Conn{} }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectionClosed
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pings++
	return c.pingErr
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// FailSends makes every following TrySend return err.
func (c *Conn) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

func (c *Conn) FailPings(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingErr = err
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) Pings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pings
}

// Events decodes the recorded frames as generic JSON objects.
func (c *Conn) Events() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// Types lists the "type" of every recorded event in order.
func (c *Conn) Types() []string {
	var out []string
	for _, e := range c.Events() {
		t, _ := e["type"].(string)
		out = append(out, t)
	}
	return out
}

// Count returns how many recorded events have type t.
func (c *Conn) Count(t domain.EventType) int {
	n := 0
	for _, typ := range c.Types() {
		if typ == string(t) {
			n++
		}
	}
	return n
}

// Last returns the most recent event of type t.
func (c *Conn) Last(t domain.EventType) (map[string]any, bool) {
	evs := c.Events()
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i]["type"] == string(t) {
			return evs[i], true
		}
	}
	return nil, false
}

// Reset forgets recorded frames.
func (c *Conn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}
