package ports

import (
	"context"
	"time"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Session is returned whenever a token pair is issued or rotated. The refresh
// token travels back to the client only inside an HTTP-only cookie; the
// access token goes in the response body.
type Session struct {
	User          domain.PublicUser
	AccessToken   string
	RefreshToken  string
	RefreshExpiry time.Time
}

// SessionService owns login, registration, logout and refresh rotation.
//
// The core invariant: a refresh token is valid only while its fingerprint is
// present in the owning user's token set. Logout and refresh both consume the
// presented token's fingerprint, so refresh tokens are single-use.
type SessionService interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Logout consumes the presented refresh token. A second call with the
	// same token fails with domain.ErrInvalidToken.
	Logout(ctx context.Context, rawRefreshToken string) error
	// Refresh atomically swaps the presented refresh token for a new pair.
	Refresh(ctx context.Context, rawRefreshToken string) (*Session, error)
	CurrentUser(ctx context.Context, userID string) (domain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (domain.PublicUser, error)
}
