package domain

import "time"

// Role is an authorization role attached to a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// TokenRecord stores the keyed hash of an issued refresh token. The raw token
// is never persisted; membership of its hash in the user's token set is the
// sole validity check beyond the JWT signature and expiry.
type TokenRecord struct {
	Hash string `bson:"hash"`
}

// OrderStats holds denormalized order aggregates. These fields are written
// exclusively by the stats recompute process, never by session operations.
type OrderStats struct {
	TotalAmount   float64    `bson:"total_amount"`
	OrderCount    int64      `bson:"order_count"`
	LastOrderID   string     `bson:"last_order_id,omitempty"`
	LastOrderDate *time.Time `bson:"last_order_date,omitempty"`
}

// User models a persisted account.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Roles         []Role
	RefreshTokens []TokenRecord
	Stats         OrderStats
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PublicUser is the outward projection of a user. Password hashes and refresh
// token records never cross a response boundary; every handler builds its
// payload from this type.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// Public returns the outward projection of the user.
func (u *User) Public() PublicUser {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: roles,
	}
}
