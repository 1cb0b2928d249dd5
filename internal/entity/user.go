package entity

import (
	"context"
	"net/url"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleVendedor UserRole = "VENDEDOR"
	RolePosVenda UserRole = "POS_VENDA"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleVendedor || r == RolePosVenda
}

// User is a team member profile. Credentials live with the auth provider.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Role         UserRole   `json:"role"`
	Avatar       string     `json:"avatar"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// DefaultAvatar builds the generated initials avatar used when a profile has
// no uploaded picture.
func DefaultAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=588575&color=fff"
}

type UserPatch struct {
	Name   *string   `json:"name,omitempty" validate:"omitempty,min=2"`
	Email  *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string   `json:"phone,omitempty"`
	Role   *UserRole `json:"role,omitempty"`
	Avatar *string   `json:"avatar,omitempty"`
}

type UserRepositoryInterface interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, patch UserPatch) error
	Delete(ctx context.Context, id string) error
}
