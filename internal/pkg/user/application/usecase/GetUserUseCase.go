package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	user "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(id string) string { return "user:" + id }

// GetUserInput wraps the id of the user to look up.
type GetUserInput struct {
	UserID string
}

// GetUserUseCase looks a user up by id, cache-aside when a cache is
// configured. Cache failures other than a miss fall through to the
// repository; the lookup never fails because the cache is down.
type GetUserUseCase struct {
	Repo  repository.UserRepository
	Cache cacheport.Cache // may be nil
}

func NewGetUserUseCase(repo repository.UserRepository, cache cacheport.Cache) *GetUserUseCase {
	return &GetUserUseCase{Repo: repo, Cache: cache}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, in GetUserInput) (*user.User, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, userCacheKey(in.UserID)); err == nil {
			var u user.User
			if json.Unmarshal([]byte(raw), &u) == nil {
				return &u, nil
			}
		}
	}

	u, err := uc.Repo.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(u); err == nil {
			_ = uc.Cache.Set(ctx, userCacheKey(in.UserID), string(raw), userCacheTTL)
		}
	}
	return u, nil
}
