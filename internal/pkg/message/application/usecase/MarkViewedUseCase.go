package usecase

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// MarkViewedInput wraps the id of the message to flip to viewed.
type MarkViewedInput struct {
	MessageID string
}

// MarkViewedUseCase sets viewed=true on a stored message. The operation
// is idempotent; marking an already-viewed message succeeds.
type MarkViewedUseCase struct {
	Repo repository.MessageRepository
}

func NewMarkViewedUseCase(repo repository.MessageRepository) *MarkViewedUseCase {
	return &MarkViewedUseCase{Repo: repo}
}

func (uc *MarkViewedUseCase) Execute(ctx context.Context, in MarkViewedInput) error {
	if in.MessageID == "" {
		return repository.ErrNotFound
	}
	if err := uc.Repo.MarkViewed(ctx, in.MessageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
