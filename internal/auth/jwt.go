package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by Inspect for bearer tokens that are not JWTs.
// Such tokens are opaque to the client and carry no expiry.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims is the payload the property API puts in its login tokens.
//
// The client only ever reads these fields back out of a token the server
// issued. The test server issues tokens with the same shape, so a login
// against it exercises exactly the decoding path a real session does.
//
// Why embed jwt.RegisteredClaims?
//   - It gives us the standard fields for free: ExpiresAt, IssuedAt, Issuer.
//   - ExpiresAt is the one the session layer cares about.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 token for a user.
//
// Parameters:
//   - userID, email: who this token represents.
//   - secret: the HMAC key to sign with.
//   - ttl: how long until the token expires. A negative ttl yields a
//     token that is already expired, which the expiry tests use.
//
// Returns the signed token string (e.g., "eyJhbGciOi...").
func GenerateToken(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			// ExpiresAt: after this time the session treats the token
			// as gone and the route guard sends the user to login.
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "pgdesk",
		},
	}

	// jwt.NewWithClaims creates an unsigned token with our claims.
	// SignedString signs it with our secret and returns the final string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a JWT string and extracts the claims.
//
// It verifies:
//  1. The signature matches our secret (not tampered with).
//  2. The token hasn't expired (ExpiresAt is in the future).
//  3. The signing method is HMAC.
//
// Only the test server calls this; the client has no secret.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			// Called BEFORE signature verification. A token signed with
			// "none" or RSA is rejected here, which closes off the JWT
			// "algorithm confusion" attack.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// Inspect decodes the claims of a token without verifying its signature.
//
// Why is skipping verification fine here?
//   - The client never holds the signing secret, so it cannot verify.
//   - It only reads exp, to stop treating a dead session as live.
//   - The server still verifies every request, so a forged exp buys an
//     attacker nothing but a 401.
func Inspect(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// Expired reports whether the token carries an exp claim at or before now.
// Opaque tokens and tokens without exp never expire client-side.
func Expired(tokenString string, now time.Time) bool {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
