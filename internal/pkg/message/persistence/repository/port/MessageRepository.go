package repository

import (
	"context"
	"errors"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
)

// ErrNotFound is returned by MarkViewed when the id is unknown or malformed.
var ErrNotFound = errors.New("message not found")

// MessageRepository defines persistence for the durable chat log.
// Every List* operation returns messages in ascending timestamp order
// (message id breaks ties). Append must be safe under concurrent calls
// from many connections.
type MessageRepository interface {
	Append(ctx context.Context, m message.Message) (string, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]message.Message, error)
	ListConversation(ctx context.Context, userA, userB string) ([]message.Message, error)
	ListByParticipant(ctx context.Context, userID string) ([]message.Message, error)
	MarkViewed(ctx context.Context, id string) error
}
