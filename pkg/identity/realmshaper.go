package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
)

var _ Validator = &RealmshaperClient{}

// RealmshaperClient validates user tokens against the Realmshaper
// identity service. Each call is a single GET to the permitted-users
// endpoint with the token attached as a header. Results are not cached
// and failed calls are not retried.
type RealmshaperClient struct {
	baseURL string
	client  *http.Client
}

// NewRealmshaperClient creates a new RealmshaperClient for the given
// service base URL.
func NewRealmshaperClient(baseURL string) *RealmshaperClient {
	return &RealmshaperClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// ValidateUser resolves the token to a caller identity.
func (c *RealmshaperClient) ValidateUser(ctx context.Context, token string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/permitted-users", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set(HeaderUserToken, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ValidationError{
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ValidationError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	identity := &models.Identity{}
	if err := json.NewDecoder(resp.Body).Decode(identity); err != nil {
		return nil, &ValidationError{
			Message: fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	return identity, nil
}
