package token

import (
	"errors"
	"testing"
	"time"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

func testCodec() *Codec {
	return NewCodec(Config{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    time.Hour,
	})
}

func testUser() *domain.User {
	return &domain.User{ID: "64f000000000000000000001", Email: "alice@example.com"}
}

func TestCodec_AccessRoundTrip(t *testing.T) {
	c := testCodec()
	user := testUser()

	raw, err := c.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := c.Verify(raw, Access)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Fatalf("email = %q, want %q", claims.Email, user.Email)
	}
}

func TestCodec_RefreshRoundTrip(t *testing.T) {
	c := testCodec()

	raw, err := c.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := c.Verify(raw, Refresh); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestCodec_ClassesAreNotInterchangeable(t *testing.T) {
	c := testCodec()
	user := testUser()

	access, _ := c.IssueAccess(user)
	refresh, _ := c.IssueRefresh(user)

	if _, err := c.Verify(access, Refresh); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("access token verified against refresh secret: %v", err)
	}
	if _, err := c.Verify(refresh, Access); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("refresh token verified against access secret: %v", err)
	}
}

func TestCodec_Expired(t *testing.T) {
	c := NewCodec(Config{
		AccessSecret:  "access-secret",
		AccessTTL:     -time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    time.Hour,
	})

	raw, err := c.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := c.Verify(raw, Access); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestCodec_ExpiredWithinLeeway(t *testing.T) {
	c := NewCodec(Config{
		AccessSecret:  "access-secret",
		AccessTTL:     -time.Second,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    time.Hour,
		Leeway:        time.Minute,
	})

	raw, _ := c.IssueAccess(testUser())
	if _, err := c.Verify(raw, Access); err != nil {
		t.Fatalf("token within leeway rejected: %v", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	c := testCodec()
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := c.Verify(raw, Access); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Verify(%q) = %v, want ErrMalformed", raw, err)
		}
	}
}

func TestCodec_Fingerprint(t *testing.T) {
	c := testCodec()
	user := testUser()

	raw, _ := c.IssueRefresh(user)
	if c.Fingerprint(raw) != c.Fingerprint(raw) {
		t.Fatalf("fingerprint is not deterministic")
	}
	if c.Fingerprint(raw) == raw {
		t.Fatalf("fingerprint must not equal the raw token")
	}

	other, _ := c.IssueRefresh(&domain.User{ID: "64f000000000000000000002", Email: "bob@example.com"})
	if c.Fingerprint(raw) == c.Fingerprint(other) {
		t.Fatalf("different tokens produced the same fingerprint")
	}
}
