// Package secretary provides methods for issuing and verifying bearer tokens.
package secretary

// Secretary defines a set of methods for types implementing Secretary.
type Secretary interface {
	GetTokenForUser(userID int64) (string, error)
	ValidateToken(accessToken string) (int64, error)
}
