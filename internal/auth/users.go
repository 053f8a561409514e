package auth

import "context"

// Operator roles. Admins additionally manage zones and operators.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// User is a warehouse operator account.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// UserStore persists operator accounts. GetByEmail returns (nil, nil)
// when no account matches.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
}
