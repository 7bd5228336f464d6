package topstepx

import (
	"fmt"
	"os"
	"strings"
)

// SaveToken writes the cached session token to path. Tokens are valid
// for 24 hours, so a saved token lets short-lived CLI invocations skip
// re-authentication.
func (c *Client) SaveToken(path string) error {
	if c.token == "" {
		return fmt.Errorf("no session token to save, authenticate first")
	}
	if err := os.WriteFile(path, []byte(c.token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// LoadToken reads a previously saved session token from path and
// installs it on the client.
func (c *Client) LoadToken(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return fmt.Errorf("token file %s is empty", path)
	}
	c.token = token
	return nil
}
