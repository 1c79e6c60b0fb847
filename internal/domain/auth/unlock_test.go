package auth

import (
	"errors"
	"testing"
	"time"
)

func TestUnlockAndVerify(t *testing.T) {
	u, err := NewUnlocker("0712", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new unlocker: %v", err)
	}
	token, expires, err := u.Unlock("0712")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected future expiry, got %v", expires)
	}
	claims, err := u.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Scope != ScopeManager {
		t.Fatalf("expected manager scope, got %q", claims.Scope)
	}
}

func TestUnlockRejectsWrongCode(t *testing.T) {
	u, _ := NewUnlocker("0712", "test-secret", time.Hour)
	if _, _, err := u.Unlock("1234"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	u, _ := NewUnlocker("0712", "test-secret", time.Minute)
	token, _, err := u.Unlock("0712")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	u.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := u.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}

	other, _ := NewUnlocker("0712", "", time.Hour)
	fresh, _, _ := other.Unlock("0712")
	if _, err := u.Verify(fresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token from another secret to fail, got %v", err)
	}
	if _, err := u.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected garbage to fail, got %v", err)
	}
}

func TestNewUnlockerRequiresCode(t *testing.T) {
	if _, err := NewUnlocker("", "s", time.Hour); err == nil {
		t.Fatal("expected empty code to fail")
	}
}
