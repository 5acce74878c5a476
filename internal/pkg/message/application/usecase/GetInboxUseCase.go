package usecase

import (
	"context"
	"fmt"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// GetInboxInput wraps the recipient whose messages are fetched.
type GetInboxInput struct {
	RecipientID string
}

// GetInboxUseCase returns all messages addressed to one recipient,
// ascending by timestamp.
type GetInboxUseCase struct {
	Repo repository.MessageRepository
}

func NewGetInboxUseCase(repo repository.MessageRepository) *GetInboxUseCase {
	return &GetInboxUseCase{Repo: repo}
}

func (uc *GetInboxUseCase) Execute(ctx context.Context, in GetInboxInput) ([]message.Message, error) {
	if in.RecipientID == "" {
		return nil, fmt.Errorf("recipient_id is required")
	}
	msgs, err := uc.Repo.ListByRecipient(ctx, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
