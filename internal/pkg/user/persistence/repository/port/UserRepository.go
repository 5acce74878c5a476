package repository

import (
	"context"
	"errors"

	user "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/application/domain"
)

// ErrNotFound is returned when no user exists for the given id.
var ErrNotFound = errors.New("user not found")

// UserRepository is the collaborator contract the relay core needs:
// lookup by id and profile-picture updates. Everything else about
// accounts is out of scope.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	UpdateProfilePicture(ctx context.Context, id string, pictureURL string) error
}
