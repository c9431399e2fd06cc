package fakeapi

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 7 * 24 * time.Hour

// sessionTokens issues and verifies the signed tokens stored in the session cookie. The key is
// generated per process, so sessions do not survive a restart.
type sessionTokens struct {
	key []byte
}

func newSessionTokens() *sessionTokens {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return &sessionTokens{key: key}
}

func (t *sessionTokens) issue(userID, sessionID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// verify returns the session and user IDs of a token that has a valid signature and has not
// expired.
func (t *sessionTokens) verify(token string) (sessionID, userID string, ok bool) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", false
	}
	return claims.ID, claims.Subject, true
}
