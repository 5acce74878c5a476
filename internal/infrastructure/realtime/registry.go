package realtime

import (
	"errors"
	"sync"
)

// ErrInvalidArgument is returned by Join when the user id or room key is empty.
var ErrInvalidArgument = errors.New("realtime: user id and room key are required")

// Membership records one room a connection belonged to, tagged with the
// user id claimed when it joined. Detach returns these so the caller can
// notify the remaining members.
type Membership struct {
	Room   string
	UserID string
}

// Registry tracks live connections, the rooms they joined and a
// user-id -> connections index for direct signaling delivery. Rooms are
// created implicitly on first join and garbage-collected when empty.
// A user may hold several simultaneous connections.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Connection            // handle -> connection
	userConns map[string]map[string]*Connection // userID -> handle -> connection
	rooms     map[string]map[string]*Connection // roomKey -> handle -> connection
	connRooms map[string]map[string]string      // handle -> roomKey -> userID claimed at join
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*Connection),
		userConns: make(map[string]map[string]*Connection),
		rooms:     make(map[string]map[string]*Connection),
		connRooms: make(map[string]map[string]string),
	}
}

// Attach registers a connection and starts its write loop.
func (r *Registry) Attach(conn *Connection) {
	r.mu.Lock()
	r.sessions[conn.ID] = conn
	if conn.UserID != "" {
		byHandle := r.userConns[conn.UserID]
		if byHandle == nil {
			byHandle = make(map[string]*Connection)
			r.userConns[conn.UserID] = byHandle
		}
		byHandle[conn.ID] = conn
	}
	r.connRooms[conn.ID] = make(map[string]string)
	r.mu.Unlock()

	conn.Start()
}

// Detach removes the connection from every room it joined and from the
// user index, returning the memberships that were torn down. It runs
// synchronously with the disconnect so stale handles never linger.
func (r *Registry) Detach(conn *Connection) []Membership {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[conn.ID]; !ok {
		return nil
	}
	delete(r.sessions, conn.ID)

	if byHandle, ok := r.userConns[conn.UserID]; ok {
		delete(byHandle, conn.ID)
		if len(byHandle) == 0 {
			delete(r.userConns, conn.UserID)
		}
	}

	memberships := make([]Membership, 0, len(r.connRooms[conn.ID]))
	for roomKey, userID := range r.connRooms[conn.ID] {
		r.leaveLocked(roomKey, conn.ID)
		memberships = append(memberships, Membership{Room: roomKey, UserID: userID})
	}
	delete(r.connRooms, conn.ID)
	return memberships
}

// Join adds the connection to the room, tagged with the claimed user id.
// Joining a room the connection is already in is a no-op.
func (r *Registry) Join(conn *Connection, userID, roomKey string) error {
	if userID == "" || roomKey == "" {
		return ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[conn.ID]; !ok {
		return errors.New("realtime: connection is not attached")
	}

	room := r.rooms[roomKey]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[roomKey] = room
	}
	room[conn.ID] = conn

	memberships := r.connRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]string)
		r.connRooms[conn.ID] = memberships
	}
	memberships[roomKey] = userID
	return nil
}

// Leave removes the connection from the room. It reports the user id the
// membership was tagged with and whether a membership existed.
func (r *Registry) Leave(conn *Connection, roomKey string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.connRooms[conn.ID][roomKey]
	if !ok {
		return "", false
	}
	r.leaveLocked(roomKey, conn.ID)
	return userID, true
}

// Broadcast writes payload to every member of the room except the
// connection identified by excludeHandle (when non-empty). Broadcasting
// to an unknown or empty room is a silent no-op. Returns the number of
// connections the payload was handed to.
func (r *Registry) Broadcast(roomKey string, payload []byte, excludeHandle string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomKey]
	delivered := 0
	for handle, conn := range room {
		if handle == excludeHandle {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// BroadcastAll writes payload to every attached connection, regardless of
// room membership.
func (r *Registry) BroadcastAll(payload []byte, excludeHandle string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for handle, conn := range r.sessions {
		if handle == excludeHandle {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// FindTarget resolves a signaling target id to live connections. The id
// is tried as a connection handle first, then as a user id; signaling
// clients address peers by the handle they learned from a prior event,
// while chat clients only know user ids.
func (r *Registry) FindTarget(id string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if conn, ok := r.sessions[id]; ok {
		return []*Connection{conn}
	}
	byHandle := r.userConns[id]
	if len(byHandle) == 0 {
		return nil
	}
	conns := make([]*Connection, 0, len(byHandle))
	for _, conn := range byHandle {
		conns = append(conns, conn)
	}
	return conns
}

// Close terminates all tracked connections and clears registry state.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userConns = make(map[string]map[string]*Connection)
	r.rooms = make(map[string]map[string]*Connection)
	r.connRooms = make(map[string]map[string]string)
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "registry shutdown")
	}
}

func (r *Registry) leaveLocked(roomKey string, handle string) {
	room := r.rooms[roomKey]
	if room == nil {
		return
	}
	delete(room, handle)
	if len(room) == 0 {
		delete(r.rooms, roomKey)
	}
	if memberships, ok := r.connRooms[handle]; ok {
		delete(memberships, roomKey)
	}
}
