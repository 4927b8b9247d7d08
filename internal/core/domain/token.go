package domain

import (
	"errors"
	"time"
)

var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")

// TokenClaims are the decoded contents of a validated access token.
type TokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}
