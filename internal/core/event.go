package core

import (
	"encoding/json"
	"time"
)

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventJoinSuccess confirms a join to the requesting connection.
	EventJoinSuccess EventKind = iota
	// EventJoinError reports a refused join to the requesting connection.
	EventJoinError
	// EventSystem is a presence notice (peer joined or left a room).
	EventSystem
	// EventChatMessage carries an opaque relayed payload.
	EventChatMessage
)

// System notice types.
const (
	SystemJoin  = "join"
	SystemLeave = "leave"
)

// Event is a tagged variant describing one outbound notification.
// Which fields are meaningful depends on Kind.
type Event struct {
	Kind        EventKind
	Room        string
	Nickname    string
	CurrentSize int
	MaxSize     int
	SystemType  string
	Timestamp   string
	Err         *RelayError
	// Payload is the untouched chat_message body, relayed byte-for-byte.
	Payload json.RawMessage
}

func joinSuccessEvent(room, nickname string, current, max int) Event {
	return Event{
		Kind:        EventJoinSuccess,
		Room:        room,
		Nickname:    nickname,
		CurrentSize: current,
		MaxSize:     max,
	}
}

func joinErrorEvent(err *RelayError, room string, current, max int) Event {
	return Event{
		Kind:        EventJoinError,
		Room:        room,
		CurrentSize: current,
		MaxSize:     max,
		Err:         err,
	}
}

func systemEvent(systemType, room, nickname string) Event {
	return Event{
		Kind:       EventSystem,
		Room:       room,
		Nickname:   nickname,
		SystemType: systemType,
		Timestamp:  utcTimestamp(),
	}
}

func chatEvent(payload json.RawMessage) Event {
	return Event{Kind: EventChatMessage, Payload: payload}
}

// utcTimestamp renders the current time as ISO-8601 UTC with a literal Z,
// microsecond precision.
func utcTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
