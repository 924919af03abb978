package core

import (
	"encoding/json"

	"github.com/dkeye/Meetcast/internal/domain"
)

// Frame is one serialized outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
// TrySend never blocks: a full queue returns domain.ErrBackpressure.
// Close is idempotent.
type SignalConnection interface {
	TrySend(Frame) error
	Ping() error
	Close()
}

// Encode serializes an event once so it can be fanned out as-is.
func Encode(ev domain.Event) (Frame, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
