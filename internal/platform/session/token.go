package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is a best-effort view into the stored credential token. The
// token is opaque to the protocol; these fields are display-only and never
// feed authorization decisions.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry in the past.
func (ti *TokenInfo) Expired() bool {
	return !ti.ExpiresAt.IsZero() && time.Now().After(ti.ExpiresAt)
}

// TokenInfo parses the stored token as an unverified JWT. It returns nil when
// there is no session or the token is not a JWT.
func (s *Store) TokenInfo() *TokenInfo {
	token := s.Token()
	if token == "" {
		return nil
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}
