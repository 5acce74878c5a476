package message

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Message is one durable entry in the chat log. The JSON shape matches the
// records the mobile client already reads:
// {id, senderId, recipientId, message, timestamp, viewed}.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Body        string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Viewed      bool      `json:"viewed"`
}

// ErrInvalid reports a message missing one of its required fields.
var ErrInvalid = errors.New("sender_id, recipient_id and message are required")

// New validates m and fills in server-generated fields. IDs are ULIDs so
// insertion order is recoverable from the id alone; timestamps are UTC.
func New(m Message) (*Message, error) {
	m.Body = strings.TrimSpace(m.Body)
	if m.SenderID == "" || m.RecipientID == "" || m.Body == "" {
		return nil, ErrInvalid
	}
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return &m, nil
}

// DirectRoomKey derives the room key two clients share for a direct
// conversation. Argument order mirrors the wire protocol: recipient
// first, then sender.
func DirectRoomKey(recipientID, senderID string) string {
	return fmt.Sprintf("chat_%s_%s", recipientID, senderID)
}
