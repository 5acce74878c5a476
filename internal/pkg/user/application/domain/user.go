package user

import "time"

// User is the account record the relay core reads. Account lifecycle
// (signup, login, password handling) lives in a separate service; the
// core only looks users up and updates their profile picture.
type User struct {
	ID             string     `json:"userId"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	ProfilePicture *string    `json:"profilePicture"`
	Status         string     `json:"status"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`
}
