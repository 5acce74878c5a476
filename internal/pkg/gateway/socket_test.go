package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Imacancer/AppDev-ChatApp/internal/auth"
	"github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/realtime"
	msgadapter "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/adapter"
	useradapter "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/adapter"
)

type wireFrame struct {
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
	Error  string          `json:"error"`
}

type testServer struct {
	srv     *httptest.Server
	jwt     *auth.JWT
	msgRepo *msgadapter.MemoryMessageRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := realtime.NewRegistry()
	t.Cleanup(registry.Close)

	msgRepo := msgadapter.NewMemoryMessageRepository()
	userRepo := useradapter.NewMemoryUserRepository()
	jwt := auth.NewJWT("test-secret")

	ctl := NewSocketController(msgRepo, userRepo, nil, registry, jwt, zerolog.Nop())
	r := gin.New()
	r.GET("/ws", ctl.Handle())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, jwt: jwt, msgRepo: msgRepo}
}

// dial opens an authenticated websocket and consumes the initial
// "connected" frame, returning the connection handle the server assigned.
func (ts *testServer) dial(t *testing.T, userID string) (*websocket.Conn, string) {
	t.Helper()
	tok, err := ts.jwt.Sign(userID, time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws?token=" + tok
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	data := awaitEvent(t, ws, "connected")
	var hello struct {
		SID string `json:"sid"`
	}
	require.NoError(t, json.Unmarshal(data, &hello))
	require.NotEmpty(t, hello.SID)
	return ws, hello.SID
}

func readFrame(t *testing.T, ws *websocket.Conn) wireFrame {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var f wireFrame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

// awaitEvent skips acks and unrelated events until the wanted one arrives.
func awaitEvent(t *testing.T, ws *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	for i := 0; i < 10; i++ {
		f := readFrame(t, ws)
		if f.Event == event {
			return f.Data
		}
	}
	t.Fatalf("event %q never arrived", event)
	return nil
}

// awaitAck skips events until a success or error ack arrives.
func awaitAck(t *testing.T, ws *websocket.Conn) wireFrame {
	t.Helper()
	for i := 0; i < 10; i++ {
		f := readFrame(t, ws)
		if f.Status != "" || f.Error != "" {
			return f
		}
	}
	t.Fatal("ack never arrived")
	return wireFrame{}
}

func send(t *testing.T, ws *websocket.Conn, event string, data any) {
	t.Helper()
	b, err := json.Marshal(map[string]any{"event": event, "data": data})
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, b))
}

func TestUpgradeRequiresValidToken(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJoinRoomValidation(t *testing.T) {
	ts := newTestServer(t)
	ws, _ := ts.dial(t, "u1")

	send(t, ws, "join_room", map[string]string{"user_id": "u1"})
	ack := awaitAck(t, ws)
	require.NotEmpty(t, ack.Error)

	send(t, ws, "join_room", map[string]string{"user_id": "u1", "room": "chat_u2_u1"})
	ack = awaitAck(t, ws)
	require.Equal(t, "success", ack.Status)
}

func TestUnknownEventGetsErrorAck(t *testing.T) {
	ts := newTestServer(t)
	ws, _ := ts.dial(t, "u1")

	send(t, ws, "shout", map[string]string{})
	ack := awaitAck(t, ws)
	require.Contains(t, ack.Error, "unknown event")
}

func TestJoinNotifiesOtherMembers(t *testing.T) {
	ts := newTestServer(t)
	ws1, _ := ts.dial(t, "u1")
	ws2, _ := ts.dial(t, "u2")

	send(t, ws1, "join_room", map[string]string{"user_id": "u1", "room": "room-a"})
	require.Equal(t, "success", awaitAck(t, ws1).Status)

	send(t, ws2, "join_room", map[string]string{"user_id": "u2", "room": "room-a"})
	require.Equal(t, "success", awaitAck(t, ws2).Status)

	data := awaitEvent(t, ws1, "user_joined")
	require.JSONEq(t, `{"user_id":"u2"}`, string(data))
}

func TestEndToEndMessageFlow(t *testing.T) {
	ts := newTestServer(t)
	ws1, _ := ts.dial(t, "u1")
	ws2, _ := ts.dial(t, "u2")

	send(t, ws1, "join_room", map[string]string{"user_id": "u1", "room": "chat_u2_u1"})
	require.Equal(t, "success", awaitAck(t, ws1).Status)
	send(t, ws2, "join_room", map[string]string{"user_id": "u2", "room": "chat_u2_u1"})
	require.Equal(t, "success", awaitAck(t, ws2).Status)

	send(t, ws1, "message", map[string]any{
		"recipient_id": "u2",
		"message":      map[string]string{"senderId": "u1", "message": "hi"},
	})
	require.Equal(t, "success", awaitAck(t, ws1).Status)

	got := awaitEvent(t, ws2, "message")
	require.JSONEq(t, `{"senderId":"u1","message":"hi"}`, string(got))

	stored, err := ts.msgRepo.ListConversation(context.Background(), "u1", "u2")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "u1", stored[0].SenderID)
	require.Equal(t, "u2", stored[0].RecipientID)
	require.Equal(t, "hi", stored[0].Body)
	require.False(t, stored[0].Viewed)
}

func TestMessageValidation(t *testing.T) {
	ts := newTestServer(t)
	ws, _ := ts.dial(t, "u1")

	send(t, ws, "message", map[string]any{"recipient_id": "u2"})
	require.Equal(t, "Missing recipient or message", awaitAck(t, ws).Error)
}

func TestOfferRelayBetweenPeers(t *testing.T) {
	ts := newTestServer(t)
	ws1, sid1 := ts.dial(t, "u1")
	ws2, sid2 := ts.dial(t, "u2")

	send(t, ws1, "offer", map[string]any{
		"recipient_id": sid2,
		"offer":        map[string]string{"type": "offer", "sdp": "v=0"},
	})
	require.Equal(t, "success", awaitAck(t, ws1).Status)

	data := awaitEvent(t, ws2, "offer")
	var payload struct {
		SenderID string          `json:"sender_id"`
		Offer    json.RawMessage `json:"offer"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Equal(t, sid1, payload.SenderID)
	require.JSONEq(t, `{"type":"offer","sdp":"v=0"}`, string(payload.Offer))
}

func TestAnswerRoutesBySenderID(t *testing.T) {
	ts := newTestServer(t)
	ws1, _ := ts.dial(t, "u1")
	ws2, sid2 := ts.dial(t, "u2")

	// the answer payload addresses sender_id, exactly as clients send it
	send(t, ws1, "answer", map[string]any{
		"sender_id": sid2,
		"answer":    map[string]string{"type": "answer", "sdp": "v=0"},
	})
	require.Equal(t, "success", awaitAck(t, ws1).Status)

	data := awaitEvent(t, ws2, "answer")
	var payload struct {
		Answer json.RawMessage `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.JSONEq(t, `{"type":"answer","sdp":"v=0"}`, string(payload.Answer))
}

func TestOfferToUnreachableTarget(t *testing.T) {
	ts := newTestServer(t)
	ws, _ := ts.dial(t, "u1")

	send(t, ws, "offer", map[string]any{
		"recipient_id": "ghost",
		"offer":        map[string]string{"sdp": "v=0"},
	})
	ack := awaitAck(t, ws)
	require.Contains(t, ack.Error, "no active connection")
}

func TestProfileUpdateReachesEveryClient(t *testing.T) {
	ts := newTestServer(t)
	ws1, _ := ts.dial(t, "u1")
	ws2, _ := ts.dial(t, "u2") // not in any room with u1

	send(t, ws1, "profile_update", map[string]string{
		"userId":         "u1",
		"profilePicture": "http://x/y.png",
	})

	// the sender's own copy is queued ahead of the ack
	want := `{"userId":"u1","profilePicture":"http://x/y.png"}`
	require.JSONEq(t, want, string(awaitEvent(t, ws1, "profile_update")))
	require.Equal(t, "success", awaitAck(t, ws1).Status)
	require.JSONEq(t, want, string(awaitEvent(t, ws2, "profile_update")))
}

func TestDisconnectLeavesEveryRoom(t *testing.T) {
	ts := newTestServer(t)
	ws1, _ := ts.dial(t, "u1")
	ws2, _ := ts.dial(t, "u2")

	for _, room := range []string{"room-a", "room-b"} {
		send(t, ws1, "join_room", map[string]string{"user_id": "u1", "room": room})
		require.Equal(t, "success", awaitAck(t, ws1).Status)
		send(t, ws2, "join_room", map[string]string{"user_id": "u2", "room": room})
		require.Equal(t, "success", awaitAck(t, ws2).Status)
	}

	require.NoError(t, ws2.Close())

	// u1 hears u2 leave both rooms
	require.JSONEq(t, `{"user_id":"u2"}`, string(awaitEvent(t, ws1, "user_left")))
	require.JSONEq(t, `{"user_id":"u2"}`, string(awaitEvent(t, ws1, "user_left")))
}
