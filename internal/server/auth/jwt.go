// Package auth mints and verifies bearer tokens and hashes passwords.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered iat/exp claims plus the
// username of the operator who logged in.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken signs an HS256 token for username that expires validity
// after now. now is truncated to jwt.TimePrecision first, so the returned
// expiry is exactly the exp claim.
func GenerateToken(username string, secretKey []byte, now time.Time, validity time.Duration) (string, time.Time, error) {
	now = now.Truncate(jwt.TimePrecision)
	expiresAt := now.Add(validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: username,
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// GetUsernameFromToken verifies signature and expiry and returns the embedded
// username. Errors are common.ErrTokenMissing, common.ErrTokenExpired or
// common.ErrTokenMalformed.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	return GetUsernameFromTokenAt(tokenString, secretKey, time.Now())
}

// GetUsernameFromTokenAt is GetUsernameFromToken with expiry checked against
// now instead of the wall clock. A token stays valid up to and including its
// exp instant.
func GetUsernameFromTokenAt(tokenString string, secretKey []byte, now time.Time) (string, error) {
	if tokenString == "" {
		return "", common.ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// jwt treats now == exp as expired; exp is checked below instead.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid || claims.Username == "" || claims.ExpiresAt == nil {
		return "", common.ErrTokenMalformed
	}

	if now.After(claims.ExpiresAt.Time) {
		return "", common.ErrTokenExpired
	}

	return claims.Username, nil
}
