package cloudapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the expiry claim of an access token without verifying
// its signature. The client only uses this for display and to decide whether
// a refresh is likely; the server remains the authority on validity.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("cloudapi: token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}
