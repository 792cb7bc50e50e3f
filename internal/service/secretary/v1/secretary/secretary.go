// Package secretary provides methods for issuing and verifying bearer tokens.
package secretary

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/danilovkiri/dk-go-finances/internal/config"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelclaims"
	"github.com/golang-jwt/jwt"
)

// ErrInvalidToken is returned for any token that fails signature, issuer,
// audience or claim checks.
var ErrInvalidToken = errors.New("invalid access token")

// Secretary defines object structure and its attributes. Signing key, issuer
// and audience are fixed at construction and stay constant for the process
// lifetime.
type Secretary struct {
	key      []byte
	issuer   string
	audience string
}

// NewSecretaryService initializes a secretary service with token signing functionality.
func NewSecretaryService(c *config.SecretConfig) (*Secretary, error) {
	if c == nil || c.SecretKey == "" {
		return nil, errors.New("empty secret configuration was found")
	}
	return &Secretary{
		key:      []byte(c.SecretKey),
		issuer:   c.Issuer,
		audience: c.Audience,
	}, nil
}

// GetTokenForUser signs an HS256 token carrying the user identifier claim
// plus the configured issuer and audience. No expiry claim is set, a token
// stays valid as long as its subject exists and the signing key is unchanged.
func (s *Secretary) GetTokenForUser(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &modelclaims.AuthClaims{
		UserID: strconv.FormatInt(userID, 10),
		StandardClaims: jwt.StandardClaims{
			Issuer:   s.issuer,
			Audience: s.audience,
			IssuedAt: time.Now().Unix(),
		},
	})
	return token.SignedString(s.key)
}

// ValidateToken checks signature, issuer and audience and returns the user
// identifier claim. Malformed or mismatching tokens yield an error, never a panic.
func (s *Secretary) ValidateToken(accessToken string) (int64, error) {
	token, err := jwt.ParseWithClaims(accessToken, &modelclaims.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*modelclaims.AuthClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) || !claims.VerifyAudience(s.audience, true) {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
