package jwt

import (
	"errors"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Manager issues and verifies HS256 tokens. The same symmetric key
// signs and verifies; there is no revocation, expiry is the only
// termination.
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

func NewManager(secret string, lifetime time.Duration) *Manager {
	return &Manager{secret: []byte(secret), lifetime: lifetime}
}

func (m *Manager) Issue(userID uint, email string) (string, error) {
	now := time.Now()
	claims := jw.MapClaims{
		"sub":     email,
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(m.lifetime).Unix(),
	}
	return jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse returns the user id carried by the token. Any signature,
// format or expiry failure comes back as ErrInvalidToken.
func (m *Manager) Parse(token string) (uint, error) {
	tok, err := jw.Parse(token,
		func(t *jw.Token) (any, error) { return m.secret, nil },
		jw.WithValidMethods([]string{"HS256"}),
		jw.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jw.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// JSON numbers decode as float64
	uidf, ok := mc["user_id"].(float64)
	if !ok || uidf <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(uidf), nil
}
