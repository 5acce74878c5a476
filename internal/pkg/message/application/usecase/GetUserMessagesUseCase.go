package usecase

import (
	"context"
	"fmt"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// GetUserMessagesInput wraps the user whose sent and received messages
// are fetched.
type GetUserMessagesInput struct {
	UserID string
}

// GetUserMessagesUseCase returns every message the user sent or received,
// ascending by timestamp.
type GetUserMessagesUseCase struct {
	Repo repository.MessageRepository
}

func NewGetUserMessagesUseCase(repo repository.MessageRepository) *GetUserMessagesUseCase {
	return &GetUserMessagesUseCase{Repo: repo}
}

func (uc *GetUserMessagesUseCase) Execute(ctx context.Context, in GetUserMessagesInput) ([]message.Message, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	msgs, err := uc.Repo.ListByParticipant(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
