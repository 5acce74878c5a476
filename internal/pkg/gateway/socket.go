package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Imacancer/AppDev-ChatApp/internal/auth"
	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/realtime"
	"github.com/Imacancer/AppDev-ChatApp/internal/metrics"
	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	msgusecase "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/usecase"
	msgrepo "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/signaling"
	userusecase "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/application/usecase"
	userrepo "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

const (
	defaultReadTimeout = 60 * time.Second
	inflightTimeout    = 5 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; plug a proper checker when deployment needs one.
		return true
	},
}

// SocketController owns the websocket endpoint: it authenticates new
// connections, dispatches inbound events to the room registry, the
// message store and the signaler, and tears everything down on
// disconnect. Every handler replies only to the originating connection;
// a fault in one event never propagates past its error ack.
type SocketController struct {
	registry  *realtime.Registry
	signaler  *signaling.Signaler
	sendUC    *msgusecase.SendMessageUseCase
	profileUC *userusecase.UpdateProfilePictureUseCase
	auth      *auth.JWT
	log       zerolog.Logger
}

func NewSocketController(
	msgRepo msgrepo.MessageRepository,
	userRepo userrepo.UserRepository,
	cache cacheport.Cache,
	registry *realtime.Registry,
	jwt *auth.JWT,
	log zerolog.Logger,
) *SocketController {
	return &SocketController{
		registry:  registry,
		signaler:  signaling.NewSignaler(registry),
		sendUC:    msgusecase.NewSendMessageUseCase(msgRepo),
		profileUC: userusecase.NewUpdateProfilePictureUseCase(userRepo, cache),
		auth:      jwt,
		log:       log,
	}
}

// Handle upgrades HTTP connections to websocket and processes frames
// until the client disconnects.
func (ctl *SocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ctl.auth.Verify(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing more to do.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.registry.Attach(conn)
		metrics.ConnectionsActive.Inc()
		ctl.log.Info().Str("conn_id", conn.ID).Str("user_id", userID).Msg("client connected")

		defer func() {
			ctl.teardown(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			metrics.ConnectionsActive.Dec()
			ctl.log.Info().Str("conn_id", conn.ID).Str("user_id", userID).Msg("client disconnected")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload := outbound("connected", gin.H{"sid": conn.ID}); payload != nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				_ = conn.Send(errorAck("invalid payload"))
				continue
			}

			_ = conn.Send(ctl.dispatch(c.Request.Context(), conn, frame))
		}
	}
}

// teardown removes the connection from every room it joined and tells
// the remaining members, synchronously with the disconnect.
func (ctl *SocketController) teardown(conn *realtime.Connection) {
	for _, m := range ctl.registry.Detach(conn) {
		if payload := outbound("user_left", gin.H{"user_id": m.UserID}); payload != nil {
			ctl.registry.Broadcast(m.Room, payload, conn.ID)
		}
	}
}

// dispatch routes one inbound event to its handler and converts any
// outcome, including a panic, into an ack for the sender.
func (ctl *SocketController) dispatch(ctx context.Context, conn *realtime.Connection, frame inboundFrame) (out []byte) {
	metrics.EventsTotal.WithLabelValues(frame.Event).Inc()
	defer func() {
		if r := recover(); r != nil {
			ctl.log.Error().Str("event", frame.Event).Interface("panic", r).Msg("handler panic")
			metrics.EventErrorsTotal.WithLabelValues(frame.Event).Inc()
			out = errorAck("internal server error")
		}
	}()

	var err error
	switch frame.Event {
	case "join_room":
		err = ctl.handleJoinRoom(conn, frame.Data)
	case "message":
		err = ctl.handleMessage(ctx, conn, frame.Data)
	case "offer":
		err = ctl.handleSignal(signaling.KindOffer, conn, frame.Data)
	case "answer":
		err = ctl.handleSignal(signaling.KindAnswer, conn, frame.Data)
	case "ice_candidate":
		err = ctl.handleSignal(signaling.KindICECandidate, conn, frame.Data)
	case "profile_update":
		err = ctl.handleProfileUpdate(ctx, conn, frame.Data)
	default:
		err = fmt.Errorf("unknown event %q", frame.Event)
	}

	if err != nil {
		metrics.EventErrorsTotal.WithLabelValues(frame.Event).Inc()
		return errorAck(ctl.publicError(frame.Event, err))
	}
	return successAck()
}

// publicError maps an internal failure to the message sent to the client.
// Persistence details are logged but never leaked.
func (ctl *SocketController) publicError(event string, err error) string {
	if errors.Is(err, msgusecase.ErrPersistence) || errors.Is(err, userusecase.ErrPersistence) {
		ctl.log.Error().Str("event", event).Err(err).Msg("event handler failed")
		return "internal server error"
	}
	return err.Error()
}

func (ctl *SocketController) handleJoinRoom(conn *realtime.Connection, data json.RawMessage) error {
	var p struct {
		UserID string `json:"user_id"`
		Room   string `json:"room"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" || p.Room == "" {
		return errors.New("Invalid room or user_id")
	}

	if err := ctl.registry.Join(conn, p.UserID, p.Room); err != nil {
		return err
	}

	if payload := outbound("user_joined", gin.H{"user_id": p.UserID}); payload != nil {
		ctl.registry.Broadcast(p.Room, payload, conn.ID)
	}
	ctl.log.Debug().Str("user_id", p.UserID).Str("room", p.Room).Msg("user joined room")
	return nil
}

func (ctl *SocketController) handleMessage(ctx context.Context, conn *realtime.Connection, data json.RawMessage) error {
	var p struct {
		RecipientID string          `json:"recipient_id"`
		Message     json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RecipientID == "" || len(p.Message) == 0 {
		return errors.New("Missing recipient or message")
	}

	var inner struct {
		SenderID string `json:"senderId"`
		Body     string `json:"message"`
	}
	if err := json.Unmarshal(p.Message, &inner); err != nil {
		return errors.New("Missing recipient or message")
	}

	ctx, cancel := context.WithTimeout(ctx, inflightTimeout)
	defer cancel()

	if _, err := ctl.sendUC.Execute(ctx, msgusecase.SendMessageInput{
		SenderID:    inner.SenderID,
		RecipientID: p.RecipientID,
		Body:        inner.Body,
	}); err != nil {
		return err
	}
	metrics.MessagesStored.Inc()

	// fan out the original payload to the conversation room
	room := message.DirectRoomKey(p.RecipientID, inner.SenderID)
	if payload := outbound("message", p.Message); payload != nil {
		ctl.registry.Broadcast(room, payload, "")
	}
	return nil
}

// handleSignal relays offer/answer/ice_candidate payloads. The target
// field differs per kind: offers and candidates address recipient_id,
// answers address sender_id (kept exactly as the clients already send it).
func (ctl *SocketController) handleSignal(kind string, conn *realtime.Connection, data json.RawMessage) error {
	targetField := "recipient_id"
	if kind == signaling.KindAnswer {
		targetField = "sender_id"
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("Missing %s", targetField)
	}

	var target string
	if raw, ok := fields[targetField]; ok {
		_ = json.Unmarshal(raw, &target)
	}
	payloadField := map[string]string{
		signaling.KindOffer:        "offer",
		signaling.KindAnswer:       "answer",
		signaling.KindICECandidate: "candidate",
	}[kind]
	payload := fields[payloadField]

	if target == "" || len(payload) == 0 {
		return fmt.Errorf("Missing %s or %s", targetField, payloadField)
	}

	return ctl.signaler.Relay(kind, target, payload, conn.ID)
}

func (ctl *SocketController) handleProfileUpdate(ctx context.Context, conn *realtime.Connection, data json.RawMessage) error {
	var p struct {
		UserID         string `json:"userId"`
		ProfilePicture string `json:"profilePicture"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" || p.ProfilePicture == "" {
		return errors.New("Missing user_id or profile_picture")
	}

	ctx, cancel := context.WithTimeout(ctx, inflightTimeout)
	defer cancel()

	err := ctl.profileUC.Execute(ctx, userusecase.UpdateProfilePictureInput{
		UserID:     p.UserID,
		PictureURL: p.ProfilePicture,
	})
	// an unknown user id is tolerated: the update is best-effort and the
	// broadcast still tells connected clients about the new picture
	if err != nil && !errors.Is(err, userrepo.ErrNotFound) {
		return err
	}

	if payload := outbound("profile_update", gin.H{
		"userId":         p.UserID,
		"profilePicture": p.ProfilePicture,
	}); payload != nil {
		ctl.registry.BroadcastAll(payload, "")
	}
	return nil
}
