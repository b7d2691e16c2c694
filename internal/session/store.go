// Package session signs and verifies the conversation-history cookie
// (spec §6): a JWT whose claims carry the last ten turns, so the history
// itself never needs server-side storage.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

const CookieName = "rqa_session"

// historyClaims is the JWT claim set carrying conversation history.
type historyClaims struct {
	History []types.Turn `json:"history"`
	jwt.RegisteredClaims
}

// Store signs and verifies history cookies with a single secret loaded once
// at startup (spec §6).
type Store struct {
	secret []byte
}

// NewStore constructs a Store from the configured session secret.
func NewStore(secret string) *Store {
	return &Store{secret: []byte(secret)}
}

// Encode signs history into a cookie value. History is never mutated; the
// caller's slice is copied defensively.
func (s *Store) Encode(history []types.Turn) (string, error) {
	trimmed := history
	if len(trimmed) > types.MaxHistoryTurns {
		trimmed = trimmed[len(trimmed)-types.MaxHistoryTurns:]
	}
	copied := append([]types.Turn(nil), trimmed...)

	claims := historyClaims{
		History: copied,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies and extracts history from a cookie value. An invalid,
// expired, or missing cookie yields an empty history rather than an error:
// a fresh conversation is always a valid starting state.
func (s *Store) Decode(cookieValue string) []types.Turn {
	if cookieValue == "" {
		return nil
	}

	var claims historyClaims
	_, err := jwt.ParseWithClaims(cookieValue, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("session: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil
	}
	return claims.History
}
