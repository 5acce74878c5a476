package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConn returns an attached connection whose write loop is not running,
// so queued payloads can be inspected on the send channel directly.
func testConn(t *testing.T, r *Registry, userID string) *Connection {
	t.Helper()
	c := &Connection{
		ID:     uuid.NewString(),
		UserID: userID,
		send:   make(chan []byte, 128),
		close:  make(chan struct{}),
	}
	r.mu.Lock()
	r.sessions[c.ID] = c
	if userID != "" {
		if r.userConns[userID] == nil {
			r.userConns[userID] = make(map[string]*Connection)
		}
		r.userConns[userID][c.ID] = c
	}
	r.connRooms[c.ID] = make(map[string]string)
	r.mu.Unlock()
	return c
}

func drain(c *Connection) [][]byte {
	var out [][]byte
	for {
		select {
		case p := <-c.send:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestJoinValidation(t *testing.T) {
	r := NewRegistry()
	c := testConn(t, r, "u1")

	assert.ErrorIs(t, r.Join(c, "", "room-a"), ErrInvalidArgument)
	assert.ErrorIs(t, r.Join(c, "u1", ""), ErrInvalidArgument)
	assert.NoError(t, r.Join(c, "u1", "room-a"))
}

func TestJoinRejectsUnattachedConnection(t *testing.T) {
	r := NewRegistry()
	c := NewConnection("u1", nil)
	assert.Error(t, r.Join(c, "u1", "room-a"))
}

func TestBroadcastReachesRoomMembersExceptExcluded(t *testing.T) {
	r := NewRegistry()
	c1 := testConn(t, r, "u1")
	c2 := testConn(t, r, "u2")
	require.NoError(t, r.Join(c1, "u1", "room-a"))
	require.NoError(t, r.Join(c2, "u2", "room-a"))

	n := r.Broadcast("room-a", []byte("hello"), c1.ID)
	assert.Equal(t, 1, n)
	assert.Empty(t, drain(c1))
	require.Len(t, drain(c2), 1)
}

func TestJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	c1 := testConn(t, r, "u1")
	c2 := testConn(t, r, "u2")
	require.NoError(t, r.Join(c1, "u1", "room-a"))
	require.NoError(t, r.Join(c1, "u1", "room-a"))
	require.NoError(t, r.Join(c2, "u2", "room-a"))

	r.Broadcast("room-a", []byte("once"), "")
	assert.Len(t, drain(c1), 1)
	assert.Len(t, drain(c2), 1)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Broadcast("no-such-room", []byte("x"), ""))
}

func TestLeaveStopsDelivery(t *testing.T) {
	r := NewRegistry()
	c1 := testConn(t, r, "u1")
	c2 := testConn(t, r, "u2")
	require.NoError(t, r.Join(c1, "u1", "room-a"))
	require.NoError(t, r.Join(c2, "u2", "room-a"))

	userID, ok := r.Leave(c2, "room-a")
	require.True(t, ok)
	assert.Equal(t, "u2", userID)

	r.Broadcast("room-a", []byte("after-leave"), "")
	assert.Len(t, drain(c1), 1)
	assert.Empty(t, drain(c2))

	_, ok = r.Leave(c2, "room-a")
	assert.False(t, ok)
}

func TestDetachRemovesAllMemberships(t *testing.T) {
	r := NewRegistry()
	c1 := testConn(t, r, "u1")
	c2 := testConn(t, r, "u2")
	require.NoError(t, r.Join(c1, "u1", "room-a"))
	require.NoError(t, r.Join(c1, "u1", "room-b"))
	require.NoError(t, r.Join(c2, "u2", "room-a"))

	memberships := r.Detach(c1)
	require.Len(t, memberships, 2)
	for _, m := range memberships {
		assert.Equal(t, "u1", m.UserID)
	}

	r.Broadcast("room-a", []byte("x"), "")
	r.Broadcast("room-b", []byte("y"), "")
	assert.Empty(t, drain(c1))
	assert.Len(t, drain(c2), 1)

	assert.Empty(t, r.FindTarget(c1.ID))
	assert.Empty(t, r.FindTarget("u1"))

	// second detach is a no-op
	assert.Empty(t, r.Detach(c1))
}

func TestFindTargetByHandleThenUser(t *testing.T) {
	r := NewRegistry()
	c1 := testConn(t, r, "u1")
	c2 := testConn(t, r, "u1") // same user, second device

	byHandle := r.FindTarget(c1.ID)
	require.Len(t, byHandle, 1)
	assert.Same(t, c1, byHandle[0])

	byUser := r.FindTarget("u1")
	assert.Len(t, byUser, 2)

	assert.Empty(t, r.FindTarget("nobody"))
	_ = c2
}

func TestBroadcastAllIgnoresRooms(t *testing.T) {
	r := NewRegistry()
	c1 := testConn(t, r, "u1")
	c2 := testConn(t, r, "u2")
	c3 := testConn(t, r, "u3")
	require.NoError(t, r.Join(c1, "u1", "room-a"))

	n := r.BroadcastAll([]byte("global"), "")
	assert.Equal(t, 3, n)
	assert.Len(t, drain(c1), 1)
	assert.Len(t, drain(c2), 1)
	assert.Len(t, drain(c3), 1)
}
