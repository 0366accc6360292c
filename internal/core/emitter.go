package core

// Sink delivers an event to a single connection. Implemented by the
// transport layer; delivery is fire-and-forget, no acknowledgment is
// awaited and slow consumers may drop.
type Sink interface {
	Deliver(connectionID string, ev Event)
}

// Emitter sends events to one connection or to every room member except
// one. It is the only path from the core to the transport layer.
type Emitter struct {
	directory *RoomDirectory
	sink      Sink
}

// NewEmitter builds an emitter that resolves broadcast recipients through
// the given directory.
func NewEmitter(directory *RoomDirectory, sink Sink) *Emitter {
	return &Emitter{directory: directory, sink: sink}
}

// ToConnection delivers an event to a single connection.
func (e *Emitter) ToConnection(connectionID string, ev Event) {
	e.sink.Deliver(connectionID, ev)
}

// BroadcastExcluding delivers an event to every current member of the room
// except the given connection. The sender of a relayed message never
// receives its own message back.
func (e *Emitter) BroadcastExcluding(roomID, exceptID string, ev Event) {
	for _, id := range e.directory.MembersExcluding(roomID, exceptID) {
		e.sink.Deliver(id, ev)
	}
}
