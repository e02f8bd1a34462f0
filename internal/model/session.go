package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the persisted client state: the server address (bare host[:port]), the
// last used username and the bearer token.
type Session struct {
	ServerAddress string    `json:"server_address"`
	Username      string    `json:"username,omitempty"`
	Token         string    `json:"-"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasToken reports whether a bearer token is held
func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}

// TokenExpiry returns the exp claim when the token is a JWT. The signature is not
// verified; the value is informational only.
func (s *Session) TokenExpiry() (time.Time, bool) {
	if !s.HasToken() {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
