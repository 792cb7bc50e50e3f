// Package modeldto provides types for API data transfer.
package modeldto

import (
	"errors"
	"strings"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var (
	ErrBlankLogin      = errors.New("login must not be empty or blank")
	ErrShortPassword   = errors.New("password length must be at least 6 characters")
	ErrBlankAttachment = errors.New("attachment content must not be empty or blank")
)

type (
	// Credentials carries a login/password pair for registration and authentication.
	Credentials struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	// NewPassword carries a replacement password for a password rotation.
	NewPassword struct {
		Password string `json:"password"`
	}
	// User represents a stored user, the password hash never serializes.
	User struct {
		ID           int64  `json:"id"`
		Login        string `json:"login"`
		PasswordHash string `json:"-"`
	}
	// Entry represents one financial transaction owned by one user.
	Entry struct {
		ID             int64   `json:"id"`
		Amount         float64 `json:"amount"`
		Date           int64   `json:"date"`
		Destination    string  `json:"destination"`
		Description    string  `json:"description"`
		HasAttachments bool    `json:"hasAttachments"`
		RelatedUserID  int64   `json:"relatedUserId"`
	}
	// Attachment represents receipt-like content bound to one entry. Content
	// is a semicolon-separated sequence of "base64data|extension" pairs which
	// the server stores opaquely, decoding is a client responsibility.
	Attachment struct {
		ID             int64  `json:"id"`
		RelatedEntryID int64  `json:"relatedEntryId"`
		Content        string `json:"content"`
	}
	// CreatedID carries the identifier of a newly created entity.
	CreatedID struct {
		ID int64 `json:"id"`
	}
)

// Validate rejects blank logins and passwords shorter than MinPasswordLength.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Login) == "" {
		return ErrBlankLogin
	}
	if len(c.Password) < MinPasswordLength {
		return ErrShortPassword
	}
	return nil
}

// Validate rejects passwords shorter than MinPasswordLength.
func (p NewPassword) Validate() error {
	if len(p.Password) < MinPasswordLength {
		return ErrShortPassword
	}
	return nil
}

// Validate rejects content that is empty after trimming whitespace.
func (a Attachment) Validate() error {
	if strings.TrimSpace(a.Content) == "" {
		return ErrBlankAttachment
	}
	return nil
}
