// Package middleware provides various middleware functionality.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	restErrors "github.com/danilovkiri/dk-go-finances/internal/api/rest/errors"
	"github.com/danilovkiri/dk-go-finances/internal/config"
	processor "github.com/danilovkiri/dk-go-finances/internal/service/processor/v1"
	secretary "github.com/danilovkiri/dk-go-finances/internal/service/secretary/v1"
	"github.com/rs/zerolog"
)

type contextKey int

const userIDContextKey contextKey = iota

// TokenHandler sets object structure.
type TokenHandler struct {
	sec      secretary.Secretary
	accounts processor.Accounts
	cfg      *config.SecretConfig
	log      *zerolog.Logger
}

// NewTokenHandler initializes a new token handler.
func NewTokenHandler(sec secretary.Secretary, accounts processor.Accounts, cfg *config.SecretConfig, log *zerolog.Logger) (*TokenHandler, error) {
	if sec == nil {
		return nil, &restErrors.MiddlewareFoundNilArgument{Msg: "nil secretary was passed to token handler initializer"}
	}
	if accounts == nil {
		return nil, &restErrors.MiddlewareFoundNilArgument{Msg: "nil accounts service was passed to token handler initializer"}
	}
	return &TokenHandler{
		sec:      sec,
		accounts: accounts,
		cfg:      cfg,
		log:      log,
	}, nil
}

// TokenHandle authenticates a request by its bearer token. The token subject
// must still exist, a valid token referencing a removed user is rejected.
// The authenticated user identifier is injected into the request context.
func (c *TokenHandler) TokenHandle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if len(tokenString) == 0 {
			c.challenge(w)
			return
		}
		tokenString = strings.Replace(tokenString, "Bearer ", "", 1)
		userID, err := c.sec.ValidateToken(tokenString)
		if err != nil {
			c.log.Warn().Err(err).Msg("token validation failed")
			c.challenge(w)
			return
		}
		ctxTO, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if existence := c.accounts.CheckUserExistenceByID(ctxTO, userID); existence.Failed() {
			c.log.Warn().Msg(fmt.Sprintf("token subject %d does not exist", userID))
			c.challenge(w)
			return
		}
		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *TokenHandler) challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Bearer realm=%q", c.cfg.Realm))
	http.Error(w, "Token is not valid or has expired", http.StatusUnauthorized)
}

// UserIDFromContext retrieves the authenticated user identifier set by TokenHandle.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}
