package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose scopes a token to one flow. A password-reset token can never be
// redeemed as an email confirmation, and neither passes as API identity.
type Purpose string

const (
	PurposeAPI     Purpose = "api"
	PurposeReset   Purpose = "reset"
	PurposeConfirm Purpose = "confirm"
)

// ErrInvalidToken is the single outcome for every verification failure.
// Signature, expiry, and purpose mismatches are deliberately not
// distinguished.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	UserID  int64             `json:"user_id,omitempty"`
	Purpose Purpose           `json:"purpose"`
	Fields  map[string]string `json:"fields,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed, time-limited tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

func (t *Tokens) Issue(purpose Purpose, claims Claims, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims.Purpose = purpose
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the claims carried by token if the signature, expiry, and
// purpose all check out, and ErrInvalidToken otherwise.
func (t *Tokens) Verify(token string, purpose Purpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
