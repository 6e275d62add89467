package usecase

import "vacancy-board/internal/domain/user"

// Caller is the authenticated identity an operation runs for.
type Caller struct {
	UserID   int64
	Username string
	Role     user.Role
}

func (c Caller) Authenticated() bool {
	return c.UserID > 0
}
