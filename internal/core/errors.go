package core

// Error codes surfaced to clients when a join is refused.
const (
	ErrCodeInvalidRoomID = "INVALID_ROOM_ID"
	ErrCodeRoomFull      = "ROOM_FULL"
	ErrCodeAlreadyInRoom = "ALREADY_IN_ROOM"
)

// RelayError wraps a protocol error code and a human-readable message.
// Errors are only ever delivered to the requesting connection, never
// broadcast to other room members.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

func relayError(code, msg string) *RelayError {
	return &RelayError{Code: code, Message: msg}
}
