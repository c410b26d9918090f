package insight

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"insight-web/pkg/models"
)

// ErrEmptyToken is returned when login succeeds but no token comes back
var ErrEmptyToken = errors.New("insight: empty access token")

// Login exchanges admin credentials for a bearer token. The API expects the
// OAuth2 password form, not JSON.
func (c *clientImpl) Login(ctx context.Context, username, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token models.Token
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", form, &token); err != nil {
		return models.Token{}, err
	}
	if token.AccessToken == "" {
		return models.Token{}, ErrEmptyToken
	}
	return token, nil
}
