package usecase

import (
	"context"
	"fmt"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// GetConversationInput identifies the two participants of a direct chat.
type GetConversationInput struct {
	UserA string
	UserB string
}

// GetConversationUseCase fetches the full history between two users,
// both directions, ascending by timestamp.
type GetConversationUseCase struct {
	Repo repository.MessageRepository
}

func NewGetConversationUseCase(repo repository.MessageRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) ([]message.Message, error) {
	if in.UserA == "" || in.UserB == "" {
		return nil, fmt.Errorf("both participant ids are required")
	}
	msgs, err := uc.Repo.ListConversation(ctx, in.UserA, in.UserB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
