package proto

import "encoding/json"

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event names. chat_message keeps the same name in both directions: the
// relayed payload goes out exactly as it came in.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventChatMessage = "chat_message"

	EventJoinSuccess = "join_success"
	EventJoinError   = "join_error"
	EventSystem      = "system"
)

// RoomRequest is the data of join_room and leave_room.
type RoomRequest struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname,omitempty"`
}

// RoomRef pulls the room id out of an otherwise opaque chat_message body.
type RoomRef struct {
	RoomID string `json:"roomId"`
}

// JoinSuccess confirms a join to the requesting connection.
type JoinSuccess struct {
	RoomID      string `json:"roomId"`
	Nickname    string `json:"nickname"`
	CurrentSize int    `json:"currentSize"`
	MaxSize     int    `json:"maxSize"`
}

// JoinError reports a refused join. Size fields are only present for
// capacity rejections.
type JoinError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	RoomID      string `json:"roomId,omitempty"`
	CurrentSize int    `json:"currentSize,omitempty"`
	MaxSize     int    `json:"maxSize,omitempty"`
}

// SystemNotice tells room members that a peer joined or left.
type SystemNotice struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	Nickname  string `json:"nickname"`
	Timestamp string `json:"timestamp"`
}
