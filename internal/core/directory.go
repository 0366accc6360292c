package core

import (
	"sync"

	"github.com/samber/lo"
)

// JoinOutcome reports the result of a TryJoin attempt. CurrentSize is the
// room size after a successful join, or the size that caused the rejection.
type JoinOutcome struct {
	Joined      bool
	CurrentSize int
	MaxSize     int
}

// RoomDirectory is the authoritative table of room membership. It owns room
// creation and deletion: a room exists exactly while it has members. All
// methods are safe for concurrent use.
type RoomDirectory struct {
	mu       sync.Mutex
	capacity int
	rooms    map[string]map[string]struct{}
}

// NewRoomDirectory builds an empty directory with the given per-room
// capacity.
func NewRoomDirectory(capacity int) *RoomDirectory {
	return &RoomDirectory{
		capacity: capacity,
		rooms:    make(map[string]map[string]struct{}),
	}
}

// TryJoin checks capacity and inserts the connection in one critical
// section, so no caller can act on a stale size between check and insert.
// Joining a room the connection is already a member of succeeds without
// changing the member set.
func (d *RoomDirectory) TryJoin(roomID, connectionID string) JoinOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	members := d.rooms[roomID]
	if _, ok := members[connectionID]; ok {
		return JoinOutcome{Joined: true, CurrentSize: len(members), MaxSize: d.capacity}
	}
	if len(members) >= d.capacity {
		return JoinOutcome{CurrentSize: len(members), MaxSize: d.capacity}
	}
	if members == nil {
		members = make(map[string]struct{}, d.capacity)
		d.rooms[roomID] = members
	}
	members[connectionID] = struct{}{}
	return JoinOutcome{Joined: true, CurrentSize: len(members), MaxSize: d.capacity}
}

// Leave removes the connection from the room if present and deletes the
// room once its member set is empty. Unknown rooms and non-members are a
// no-op.
func (d *RoomDirectory) Leave(roomID, connectionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connectionID)
	if len(members) == 0 {
		delete(d.rooms, roomID)
	}
}

// MembersExcluding returns a snapshot of the room's members without the
// given connection. Absent rooms yield an empty slice.
func (d *RoomDirectory) MembersExcluding(roomID, connectionID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return lo.Without(lo.Keys(d.rooms[roomID]), connectionID)
}

// Size returns the room's current member count, 0 if the room is absent.
func (d *RoomDirectory) Size(roomID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.rooms[roomID])
}

// Capacity returns the configured per-room member limit.
func (d *RoomDirectory) Capacity() int {
	return d.capacity
}
