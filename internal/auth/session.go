// Package auth issues and verifies session tokens. Workflows receive an
// explicit *Session value; there is no ambient/global auth state.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobboard/internal/models"
)

// Session is the authenticated identity threaded through every workflow call.
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// Provider resolves a bearer token into a Session.
type Provider interface {
	CurrentSession(token string) (*Session, error)
}

// Claims embeds the registered claims plus the profile fields we carry.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenManager signs and parses HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed token for the given profile.
func (m *TokenManager) Generate(p *models.Profile) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
	})
	return token.SignedString(m.secret)
}

// CurrentSession parses and validates a token, returning the Session it carries.
func (m *TokenManager) CurrentSession(tokenString string) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
