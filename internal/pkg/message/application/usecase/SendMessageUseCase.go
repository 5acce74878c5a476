package usecase

import (
	"context"
	"fmt"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// SendMessageInput carries the data needed to persist a new chat message.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	Body        string
}

// SendMessageUseCase appends a message to the durable chat log.
// Hexagonal: depends on the repository port, returns the domain entity.
type SendMessageUseCase struct {
	Repo repository.MessageRepository
}

func NewSendMessageUseCase(repo repository.MessageRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates, stamps and persists the message.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*message.Message, error) {
	msg, err := message.New(message.Message{
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Body:        in.Body,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.Repo.Append(ctx, *msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}
