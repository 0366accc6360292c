package core

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// AnonymousNickname labels connections that joined without a nickname.
const AnonymousNickname = "anonymous"

// Dispatcher applies inbound transport events to the room directory and
// connection registry and emits the resulting outbound events. Handlers are
// invoked concurrently from per-connection read loops; all shared state
// lives behind the directory and registry locks.
type Dispatcher struct {
	directory  *RoomDirectory
	registry   *ConnectionRegistry
	emitter    *Emitter
	singleRoom bool
	log        *zerolog.Logger
}

// NewDispatcher wires the dispatcher to its collaborators. With singleRoom
// set, a connection already in a room is refused joins to any other room.
func NewDispatcher(directory *RoomDirectory, registry *ConnectionRegistry, emitter *Emitter, singleRoom bool, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		directory:  directory,
		registry:   registry,
		emitter:    emitter,
		singleRoom: singleRoom,
		log:        logger,
	}
}

// HandleConnect creates the connection entry. No outbound events; kept as
// the hook for future connect-time metadata.
func (d *Dispatcher) HandleConnect(connectionID string) {
	d.registry.Register(connectionID)
	d.log.Debug().Str("conn", connectionID).Msg("connected")
}

// HandleJoin processes a join_room request.
func (d *Dispatcher) HandleJoin(connectionID, roomID, nickname string) {
	if roomID == "" {
		d.emitter.ToConnection(connectionID, joinErrorEvent(
			relayError(ErrCodeInvalidRoomID, "invalid room id"), "", 0, 0))
		return
	}
	if nickname == "" {
		nickname = AnonymousNickname
	}

	if d.singleRoom {
		for _, other := range d.registry.RoomsOf(connectionID) {
			if other != roomID {
				d.emitter.ToConnection(connectionID, joinErrorEvent(
					relayError(ErrCodeAlreadyInRoom, "already in another room"), roomID, 0, 0))
				return
			}
		}
	}

	out := d.directory.TryJoin(roomID, connectionID)
	if !out.Joined {
		d.log.Debug().Str("conn", connectionID).Str("room", roomID).
			Int("size", out.CurrentSize).Msg("join refused, room full")
		d.emitter.ToConnection(connectionID, joinErrorEvent(
			relayError(ErrCodeRoomFull, fmt.Sprintf("room is full (max %d)", out.MaxSize)),
			roomID, out.CurrentSize, out.MaxSize))
		return
	}

	d.registry.Track(connectionID, roomID)
	d.emitter.BroadcastExcluding(roomID, connectionID, systemEvent(SystemJoin, roomID, nickname))
	d.emitter.ToConnection(connectionID, joinSuccessEvent(roomID, nickname, out.CurrentSize, out.MaxSize))
	d.log.Debug().Str("conn", connectionID).Str("room", roomID).
		Int("size", out.CurrentSize).Msg("joined room")
}

// HandleLeave processes a leave_room request. A missing room id is silently
// ignored; leaving a room never joined is a no-op apart from the presence
// notice to whoever is in the room.
func (d *Dispatcher) HandleLeave(connectionID, roomID, nickname string) {
	if roomID == "" {
		return
	}
	if nickname == "" {
		nickname = AnonymousNickname
	}

	d.directory.Leave(roomID, connectionID)
	d.registry.Untrack(connectionID, roomID)
	d.emitter.BroadcastExcluding(roomID, connectionID, systemEvent(SystemLeave, roomID, nickname))
	d.log.Debug().Str("conn", connectionID).Str("room", roomID).Msg("left room")
}

// HandleMessage relays an opaque chat payload to every other room member.
// The payload is never parsed, validated, or altered. A missing room id
// drops the message silently.
func (d *Dispatcher) HandleMessage(connectionID, roomID string, payload json.RawMessage) {
	if roomID == "" {
		return
	}
	d.emitter.BroadcastExcluding(roomID, connectionID, chatEvent(payload))
}

// HandleDisconnect removes the connection from every room it belongs to and
// drops its registry entry. Intentionally emits no presence notice, unlike
// the explicit leave path.
func (d *Dispatcher) HandleDisconnect(connectionID string) {
	for _, roomID := range d.registry.RoomsOf(connectionID) {
		d.directory.Leave(roomID, connectionID)
	}
	d.registry.Forget(connectionID)
	d.log.Debug().Str("conn", connectionID).Msg("disconnected")
}
