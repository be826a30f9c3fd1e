package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
	"github.com/weblarek/commerce-system/internal/core/token"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
	maxNameLen     = 30
	defaultName    = "Customer"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SessionService implements registration, login, logout and refresh rotation.
type SessionService struct {
	repo       ports.UserRepository
	codec      *token.Codec
	bcryptCost int
	log        zerolog.Logger
}

func NewSessionService(repo ports.UserRepository, codec *token.Codec, bcryptCost int, log zerolog.Logger) *SessionService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &SessionService{repo: repo, codec: codec, bcryptCost: bcryptCost, log: log}
}

// Register creates an account with a freshly hashed password and opens a
// session for it.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*ports.Session, error) {
	email := normalizeEmail(input.Email)
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email must be a valid email address", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultName
	}
	if len(name) < minNameLen || len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: name must be between %d and %d characters", domain.ErrValidation, minNameLen, maxNameLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        []domain.Role{domain.RoleCustomer},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return s.openSession(ctx, user)
}

// Login authenticates by email and password. Unknown email and wrong password
// fail identically so login cannot be used to enumerate accounts.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Logout consumes the presented refresh token. The fingerprint removal is a
// single conditional update, so a second logout with the same token fails
// with domain.ErrInvalidToken instead of double-removing.
func (s *SessionService) Logout(ctx context.Context, rawRefreshToken string) error {
	_, err := s.consumeRefreshToken(ctx, rawRefreshToken)
	return err
}

// Refresh rotates the presented refresh token: its fingerprint is removed and
// a fresh access/refresh pair is issued. Single-use: replaying the consumed
// token fails with domain.ErrInvalidToken.
func (s *SessionService) Refresh(ctx context.Context, rawRefreshToken string) (*ports.Session, error) {
	user, err := s.consumeRefreshToken(ctx, rawRefreshToken)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// CurrentUser returns the public view of the user behind a verified access
// token. The account may have been deleted since issuance.
func (s *SessionService) CurrentUser(ctx context.Context, userID string) (domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile applies the name/email allow-list patch. Any other field,
// roles included, is untouchable through this path.
func (s *SessionService) UpdateProfile(ctx context.Context, userID string, patch ports.ProfilePatch) (domain.PublicUser, error) {
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if !emailPattern.MatchString(email) {
			return domain.PublicUser{}, fmt.Errorf("%w: email must be a valid email address", domain.ErrValidation)
		}
		patch.Email = &email
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if len(name) < minNameLen || len(name) > maxNameLen {
			return domain.PublicUser{}, fmt.Errorf("%w: name must be between %d and %d characters", domain.ErrValidation, minNameLen, maxNameLen)
		}
		patch.Name = &name
	}

	user, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// openSession issues an access/refresh pair and records the refresh token's
// fingerprint against the user.
func (s *SessionService) openSession(ctx context.Context, user *domain.User) (*ports.Session, error) {
	access, err := s.codec.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(user)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.repo.PushRefreshToken(ctx, user.ID, s.codec.Fingerprint(refresh)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &ports.Session{
		User:          user.Public(),
		AccessToken:   access,
		RefreshToken:  refresh,
		RefreshExpiry: time.Now().UTC().Add(s.codec.RefreshTTL()),
	}, nil
}

// consumeRefreshToken validates the raw refresh token end to end and removes
// its fingerprint from the owner's token set. Every failure collapses to
// domain.ErrInvalidToken.
func (s *SessionService) consumeRefreshToken(ctx context.Context, raw string) (*domain.User, error) {
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	claims, err := s.codec.Verify(raw, token.Refresh)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token rejected")
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	if err := s.repo.PullRefreshToken(ctx, user.ID, s.codec.Fingerprint(raw)); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
