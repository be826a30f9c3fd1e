// Package token signs and verifies the two JWT classes used by the session
// core: short-lived access tokens and long-lived refresh tokens. Each class
// has its own secret so a leaked access secret cannot forge refresh tokens,
// and vice versa. The package also derives the keyed fingerprint under which
// refresh tokens are stored server-side.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

// Class selects which signing context a token belongs to.
type Class int

const (
	Access Class = iota
	Refresh
)

var (
	ErrExpired      = errors.New("token expired")
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
)

// Claims is the claim set carried by both token classes. Subject holds the
// user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config holds the immutable signing configuration, injected at construction
// time rather than read from ambient state.
type Config struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	// Leeway tolerated when checking expiry. Zero unless configured.
	Leeway time.Duration
}

// Codec issues and verifies tokens for both classes.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	leeway        time.Duration
}

func NewCodec(cfg Config) *Codec {
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		leeway:        cfg.Leeway,
	}
}

// IssueAccess signs a short-lived access token for the user.
func (c *Codec) IssueAccess(user *domain.User) (string, error) {
	return c.issue(user, c.accessSecret, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user. The caller is
// responsible for storing its fingerprint.
func (c *Codec) IssueRefresh(user *domain.User) (string, error) {
	return c.issue(user, c.refreshSecret, c.refreshTTL)
}

// RefreshTTL returns the configured refresh token lifetime; the cookie expiry
// must match it.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

func (c *Codec) issue(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// A random jti keeps tokens issued within the same second
			// distinct, so their fingerprints never collide.
			ID: randomID(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func randomID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// Verify parses and validates a token of the given class. Failures are
// normalised to ErrExpired, ErrBadSignature or ErrMalformed.
func (c *Codec) Verify(raw string, class Class) (*Claims, error) {
	secret := c.accessSecret
	if class == Refresh {
		secret = c.refreshSecret
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithLeeway(c.leeway))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Fingerprint derives the deterministic keyed hash under which a refresh
// token is stored. HMAC-SHA256 keyed with the refresh secret, hex encoded: a
// database leak yields hashes, not usable bearer tokens.
func (c *Codec) Fingerprint(rawRefreshToken string) string {
	mac := hmac.New(sha256.New, c.refreshSecret)
	mac.Write([]byte(rawRefreshToken))
	return hex.EncodeToString(mac.Sum(nil))
}
