package topstepx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// practicePrefix marks demo accounts by name, e.g. "PRACTICEMAY0512345".
const practicePrefix = "PRACTICE"

type accountSearchRequest struct {
	OnlyActiveAccounts bool `json:"onlyActiveAccounts"`
}

// SearchAccounts lists the caller's accounts, optionally restricted to
// active ones.
func (c *Client) SearchAccounts(ctx context.Context, onlyActive bool) ([]Account, error) {
	const path = "/api/Account/search"

	status, body, err := c.post(ctx, path, accountSearchRequest{OnlyActiveAccounts: onlyActive})
	if err != nil {
		return nil, &APIError{Endpoint: path, Message: err.Error()}
	}

	if status != http.StatusOK {
		return nil, &APIError{Endpoint: path, Status: status, Message: snippet(body)}
	}

	var out struct {
		envelope
		Accounts []Account `json:"accounts"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ParseError{Endpoint: path, Err: err}
	}

	if !out.ok() {
		return nil, &APIError{Endpoint: path, Status: status, Code: out.ErrorCode, Message: out.ErrorMessage}
	}

	return out.Accounts, nil
}

// TradableAccounts returns the active production accounts to fan trade
// retrieval out over. An empty account list and a list that the practice
// filter emptied are two distinct reportable outcomes.
func (c *Client) TradableAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := c.SearchAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	tradable := FilterPractice(accounts)
	if len(tradable) == 0 {
		return nil, ErrNoTradableAccounts
	}
	return tradable, nil
}

// FilterPractice drops practice/demo accounts by case-insensitive name
// prefix. An account with no name is dropped too: an account we cannot
// identify is excluded rather than ingested.
func FilterPractice(accounts []Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Name == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(a.Name), practicePrefix) {
			continue
		}
		out = append(out, a)
	}
	return out
}
