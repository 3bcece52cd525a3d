package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestTokens(at time.Time) *Tokens {
	t := NewTokens("test-secret")
	t.now = func() time.Time { return at }
	return t
}

func TestTokenRoundtrip(t *testing.T) {
	tk := newTestTokens(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	token, err := tk.Issue(PurposeAPI, Claims{UserID: 42}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := tk.Verify(token, PurposeAPI)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserID)
	}
}

func TestTokenCarriesFields(t *testing.T) {
	tk := newTestTokens(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	token, err := tk.Issue(PurposeConfirm, Claims{
		Fields: map[string]string{"username": "alice", "email": "alice@example.com"},
	}, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := tk.Verify(token, PurposeConfirm)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Fields["username"] != "alice" || claims.Fields["email"] != "alice@example.com" {
		t.Fatalf("fields = %v", claims.Fields)
	}
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tk := newTestTokens(issued)

	token, err := tk.Issue(PurposeReset, Claims{UserID: 7}, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tk.now = func() time.Time { return issued.Add(29 * time.Minute) }
	if _, err := tk.Verify(token, PurposeReset); err != nil {
		t.Fatalf("verify before expiry: %v", err)
	}

	tk.now = func() time.Time { return issued.Add(31 * time.Minute) }
	if _, err := tk.Verify(token, PurposeReset); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify after expiry: got %v, want ErrInvalidToken", err)
	}
}

func TestTokenPurposeMismatch(t *testing.T) {
	tk := newTestTokens(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	token, err := tk.Issue(PurposeReset, Claims{UserID: 7}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tk.Verify(token, PurposeAPI); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reset token accepted as api identity: %v", err)
	}
	if _, err := tk.Verify(token, PurposeConfirm); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reset token accepted as confirmation: %v", err)
	}
}

func TestTokenTampered(t *testing.T) {
	tk := newTestTokens(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	token, err := tk.Issue(PurposeAPI, Claims{UserID: 7}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, err := tk.Verify(tampered, PurposeAPI); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token accepted: %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tk := newTestTokens(at)

	token, err := tk.Issue(PurposeAPI, Claims{UserID: 7}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokens("another-secret")
	other.now = func() time.Time { return at }
	if _, err := other.Verify(token, PurposeAPI); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token verified against wrong secret: %v", err)
	}
}
