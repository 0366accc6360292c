package core

import (
	"sync"

	"github.com/samber/lo"
)

// ConnectionRegistry is the reverse index from connection to the rooms it
// currently belongs to. It exists so disconnect cleanup can find every room
// a connection has to be removed from. Maintained in lockstep with
// successful RoomDirectory joins and leaves; safe for concurrent use.
type ConnectionRegistry struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

// NewConnectionRegistry builds an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{rooms: make(map[string]map[string]struct{})}
}

// Register creates an entry for a freshly connected session.
func (r *ConnectionRegistry) Register(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[connectionID]; !ok {
		r.rooms[connectionID] = make(map[string]struct{})
	}
}

// Track records that the connection joined a room.
func (r *ConnectionRegistry) Track(connectionID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.rooms[connectionID]
	if !ok {
		rooms = make(map[string]struct{})
		r.rooms[connectionID] = rooms
	}
	rooms[roomID] = struct{}{}
}

// Untrack records that the connection left a room. No-op if unknown.
func (r *ConnectionRegistry) Untrack(connectionID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms[connectionID], roomID)
}

// RoomsOf returns a snapshot of the rooms the connection belongs to.
func (r *ConnectionRegistry) RoomsOf(connectionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return lo.Keys(r.rooms[connectionID])
}

// Forget drops all bookkeeping for the connection.
func (r *ConnectionRegistry) Forget(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, connectionID)
}
