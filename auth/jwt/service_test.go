package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: "test-signing-secret"})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Issue("user-123", "teacher")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected a three-part JWT, got %q", token)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user id 'user-123', got %q", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("expected role 'teacher', got %q", claims.Role)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestService(t)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue("user-123", "student")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// TTL is 1h; one minute past expiry must fail with the expiry sentinel.
	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyValidJustBeforeExpiry(t *testing.T) {
	svc := newTestService(t)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue("user-123", "student")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.Verify(token); err != nil {
		t.Errorf("token should still verify before expiry: %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := newTestService(t)

	for _, garbage := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(garbage); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q): expected ErrTokenMalformed, got %v", garbage, err)
		}
	}
}

func TestVerifySignatureMismatch(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService(Config{Secret: "a-different-secret"})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	token, err := other.Issue("user-123", "student")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestClaimsCarryNoExtraPII(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.Issue("user-123", "parent")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "" || claims.Issuer != "" || claims.Audience != nil {
		t.Error("registered identity claims must stay empty")
	}
}
