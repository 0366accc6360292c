package http

import (
	"encoding/json"
	"fmt"

	"github.com/pairwire/relay-server/internal/core"
	"github.com/pairwire/relay-server/internal/proto"
)

func encodeEvent(ev core.Event) (proto.Envelope, error) {
	switch ev.Kind {
	case core.EventJoinSuccess:
		return envelope(proto.EventJoinSuccess, proto.JoinSuccess{
			RoomID:      ev.Room,
			Nickname:    ev.Nickname,
			CurrentSize: ev.CurrentSize,
			MaxSize:     ev.MaxSize,
		})
	case core.EventJoinError:
		return envelope(proto.EventJoinError, proto.JoinError{
			Code:        ev.Err.Code,
			Message:     ev.Err.Message,
			RoomID:      ev.Room,
			CurrentSize: ev.CurrentSize,
			MaxSize:     ev.MaxSize,
		})
	case core.EventSystem:
		return envelope(proto.EventSystem, proto.SystemNotice{
			Type:      ev.SystemType,
			RoomID:    ev.Room,
			Nickname:  ev.Nickname,
			Timestamp: ev.Timestamp,
		})
	case core.EventChatMessage:
		// Verbatim passthrough, no re-marshalling.
		return proto.Envelope{Event: proto.EventChatMessage, Data: ev.Payload}, nil
	default:
		return proto.Envelope{}, fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func envelope(event string, data any) (proto.Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return proto.Envelope{}, fmt.Errorf("marshal %s: %w", event, err)
	}
	return proto.Envelope{Event: event, Data: raw}, nil
}
