package usecase

import (
	"context"
	"errors"
	"fmt"

	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

// UpdateProfilePictureInput carries a profile picture change.
type UpdateProfilePictureInput struct {
	UserID     string
	PictureURL string
}

// UpdateProfilePictureUseCase persists a new profile picture URL and
// invalidates the cached user record.
type UpdateProfilePictureUseCase struct {
	Repo  repository.UserRepository
	Cache cacheport.Cache // may be nil
}

func NewUpdateProfilePictureUseCase(repo repository.UserRepository, cache cacheport.Cache) *UpdateProfilePictureUseCase {
	return &UpdateProfilePictureUseCase{Repo: repo, Cache: cache}
}

func (uc *UpdateProfilePictureUseCase) Execute(ctx context.Context, in UpdateProfilePictureInput) error {
	if in.UserID == "" || in.PictureURL == "" {
		return fmt.Errorf("user_id and picture url are required")
	}

	if err := uc.Repo.UpdateProfilePicture(ctx, in.UserID, in.PictureURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		_, _ = uc.Cache.Del(ctx, userCacheKey(in.UserID))
	}
	return nil
}
