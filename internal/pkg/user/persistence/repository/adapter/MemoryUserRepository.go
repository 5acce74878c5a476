package adapter

import (
	"context"
	"sync"

	user "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

// MemoryUserRepository keeps users in process memory for development mode
// and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]user.User)}
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

// Seed inserts or replaces a user record.
func (r *MemoryUserRepository) Seed(u user.User) {
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) UpdateProfilePicture(ctx context.Context, id string, pictureURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		// profile updates for unknown users are tolerated in dev mode so
		// the relay keeps working without a provisioned user table
		u = user.User{ID: id, Status: "online"}
	}
	u.ProfilePicture = &pictureURL
	r.users[id] = u
	return nil
}
