package identity

import (
	"context"
	"fmt"

	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
)

// HeaderUserToken is the request header carrying the opaque user token.
const HeaderUserToken = "rs-user-token"

// Validator translates an opaque user token into a caller identity.
type Validator interface {
	ValidateUser(ctx context.Context, token string) (*models.Identity, error)
}

// ValidationError indicates the identity service rejected the token or
// could not be reached. Message carries the remote error verbatim.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("identity validation failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("identity validation failed: %s", e.Message)
}

func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
