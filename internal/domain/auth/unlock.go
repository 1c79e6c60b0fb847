package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ScopeManager is the only scope an unlock grants: editing the manager section.
const ScopeManager = "manager"

var (
	ErrInvalidCode  = errors.New("unlock code is incorrect")
	ErrInvalidToken = errors.New("unlock token is invalid or expired")
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Unlocker exchanges the static unlock code for a short-lived token.
// The code is only kept as a bcrypt hash.
type Unlocker struct {
	codeHash []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewUnlocker hashes the code. An empty secret gets a random per-process one,
// so tokens stop working after a restart.
func NewUnlocker(code, secret string, ttl time.Duration) (*Unlocker, error) {
	if code == "" {
		return nil, errors.New("unlock code must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash unlock code: %w", err)
	}
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate unlock secret: %w", err)
		}
		key = []byte(hex.EncodeToString(buf))
	}
	return &Unlocker{codeHash: hash, secret: key, ttl: ttl, now: time.Now}, nil
}

func (u *Unlocker) CheckCode(code string) error {
	if err := bcrypt.CompareHashAndPassword(u.codeHash, []byte(code)); err != nil {
		return ErrInvalidCode
	}
	return nil
}

// Unlock verifies the code and returns a signed token with its expiry.
func (u *Unlocker) Unlock(code string) (string, time.Time, error) {
	if err := u.CheckCode(code); err != nil {
		return "", time.Time{}, err
	}
	now := u.now()
	expires := now.Add(u.ttl)
	claims := Claims{
		Scope: ScopeManager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (u *Unlocker) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return u.secret, nil
	}, jwt.WithTimeFunc(u.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Scope != ScopeManager {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
