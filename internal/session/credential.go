package session

import (
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var bearerPrefix = regexp.MustCompile(`(?i)^bearer(\s+|$)`)

// StripBearer removes a leading "Bearer " (any case) from a stored token so it
// is never prefixed twice when re-attached to a request.
func StripBearer(token string) string {
	return strings.TrimSpace(bearerPrefix.ReplaceAllString(strings.TrimSpace(token), ""))
}

// CredentialExpiry returns the exp claim of a JWT credential.
// The signature is not verified; the backend remains the authority on the token.
// ok is false for opaque credentials and for JWTs without an exp claim.
func CredentialExpiry(credential string) (expiresAt time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(StripBearer(credential), &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// CredentialSubject returns the sub claim of a JWT credential, if any
func CredentialSubject(credential string) (string, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(StripBearer(credential), &claims); err != nil {
		return "", false
	}
	return claims.Subject, claims.Subject != ""
}
