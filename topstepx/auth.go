package topstepx

import (
	"context"
	"encoding/json"
	"net/http"
)

type loginRequest struct {
	UserName string `json:"userName"`
	APIKey   string `json:"apiKey"`
}

// Authenticate exchanges the configured credentials for a session token
// and caches it on the client. TopstepX tokens are valid for 24 hours,
// well past the lifetime of a single run.
//
// Success requires all of: HTTP 200, success flag set, errorCode zero,
// and a non-empty token. Anything else is an *AuthError; a 200 response
// whose body cannot be decoded is a *ParseError instead, so rejected
// credentials stay distinguishable from a broken contract.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	const path = "/api/Auth/loginKey"

	status, body, err := c.post(ctx, path, loginRequest{
		UserName: c.creds.UserName,
		APIKey:   c.creds.APIKey,
	})
	if err != nil {
		return "", &AuthError{Message: err.Error()}
	}

	if status != http.StatusOK {
		return "", &AuthError{Status: status, Message: snippet(body)}
	}

	var out struct {
		envelope
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &ParseError{Endpoint: path, Err: err}
	}

	if !out.ok() || out.Token == "" {
		return "", &AuthError{Status: status, Code: out.ErrorCode, Message: out.ErrorMessage}
	}

	c.token = out.Token
	c.log.Info().Msg("authenticated")
	return out.Token, nil
}

// Token returns the cached session token, or "" before authentication.
func (c *Client) Token() string {
	return c.token
}

// SetToken installs a previously saved session token, skipping
// Authenticate for as long as the token remains valid.
func (c *Client) SetToken(token string) {
	c.token = token
}
