package auth

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	sessionIssuer   = "bookcat"
	sessionLifetime = 12 * time.Hour

	// PASETO v4 symmetric key: 32 bytes supplied as hex.
	keyHexSize = 64
)

// SessionClaims is what the admin middleware gets back from a verified
// session cookie.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Sessions mints and verifies the PASETO v4.local tokens carried in the
// admin session cookie.
type Sessions struct {
	key paseto.V4SymmetricKey
}

func NewSessions(keyHex string) (*Sessions, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("session key must be %d hex characters, got %d", keyHexSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("session key is not valid hex: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, err
	}

	return &Sessions{key: key}, nil
}

// Issue encrypts a session token for the given user.
func (s *Sessions) Issue(email, name string) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(sessionIssuer)
	token.SetSubject(email)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(sessionLifetime))
	_ = token.Set("email", email)
	_ = token.Set("name", name)

	return token.V4Encrypt(s.key, nil)
}

// Verify decrypts and validates a session token. Any failure (tampered,
// expired, not ours) comes back as an error; callers treat every error
// as "not logged in".
func (s *Sessions) Verify(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(sessionIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	var claims SessionClaims
	if err := token.Get("email", &claims.Email); err != nil {
		return nil, fmt.Errorf("session token missing email: %w", err)
	}
	_ = token.Get("name", &claims.Name)

	return &claims, nil
}
