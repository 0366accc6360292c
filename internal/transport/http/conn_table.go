package http

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/pairwire/relay-server/internal/core"
	"github.com/pairwire/relay-server/internal/proto"
)

// outboundBuffer bounds the per-connection send queue. Events past a stuck
// writer are dropped rather than blocking the relay.
const outboundBuffer = 16

// ConnTable tracks live websocket connections and routes core events into
// their outbound queues. It implements core.Sink.
type ConnTable struct {
	mu    sync.Mutex
	conns map[string]chan proto.Envelope
	log   *zerolog.Logger
}

// NewConnTable builds an empty table.
func NewConnTable(logger *zerolog.Logger) *ConnTable {
	return &ConnTable{
		conns: make(map[string]chan proto.Envelope),
		log:   logger,
	}
}

func (t *ConnTable) add(connectionID string) chan proto.Envelope {
	events := make(chan proto.Envelope, outboundBuffer)
	t.mu.Lock()
	t.conns[connectionID] = events
	t.mu.Unlock()
	return events
}

func (t *ConnTable) remove(connectionID string) {
	t.mu.Lock()
	delete(t.conns, connectionID)
	t.mu.Unlock()
}

// Deliver serializes the event and queues it on the connection's outbound
// channel. Unknown connections and full queues drop silently beyond a log
// line; the core never waits on transport sends.
func (t *ConnTable) Deliver(connectionID string, ev core.Event) {
	env, err := encodeEvent(ev)
	if err != nil {
		t.log.Error().Err(err).Str("conn", connectionID).Msg("encode outbound event")
		return
	}

	t.mu.Lock()
	events, ok := t.conns[connectionID]
	t.mu.Unlock()
	if !ok {
		return
	}

	select {
	case events <- env:
	default:
		t.log.Warn().Str("conn", connectionID).Str("event", env.Event).Msg("slow consumer, event dropped")
	}
}
