package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cbodonnell/monstermaker/pkg/identity"
	"github.com/cbodonnell/monstermaker/pkg/log"
)

type ContextKey int

const (
	// IdentityContextKey is the key used to store the caller identity in the request context
	IdentityContextKey ContextKey = iota
)

// NewIdentityMiddleware returns middleware that validates the caller's
// user token against the identity service before invoking the next
// handler. The resolved identity is stored in the request context.
// The wrapped handler never runs unless validation succeeded.
func NewIdentityMiddleware(validator identity.Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := parseUserToken(r)
			if err != nil {
				log.Error("failed to parse user token: %v", err)
				http.Error(w, "failed to parse user token", http.StatusUnauthorized)
				return
			}

			caller, err := validator.ValidateUser(r.Context(), token)
			if err != nil {
				log.Error("failed to validate user token: %v", err)
				http.Error(w, "failed to validate user token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseUserToken parses the user token from the rs-user-token header
func parseUserToken(r *http.Request) (string, error) {
	token := r.Header.Get(identity.HeaderUserToken)
	if token == "" {
		return "", fmt.Errorf("%s header is missing", identity.HeaderUserToken)
	}

	return token, nil
}
