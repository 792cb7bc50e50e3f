// Package modelclaims provides types for token authorization.
package modelclaims

import "github.com/golang-jwt/jwt"

// AuthClaims carries the authenticated user identifier as a string claim
// alongside the registered issuer/audience claims.
type AuthClaims struct {
	UserID string `json:"user-id"`
	jwt.StandardClaims
}
