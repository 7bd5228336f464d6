package topstepx

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAccounts means the platform returned zero active accounts.
	ErrNoAccounts = errors.New("no active accounts found")

	// ErrNoTradableAccounts means active accounts exist but the practice
	// filter removed all of them. Callers report this separately from
	// ErrNoAccounts.
	ErrNoTradableAccounts = errors.New("no tradable accounts after practice filter")
)

// AuthError reports rejected credentials or an application-level auth
// failure. It is non-retryable without operator intervention.
type AuthError struct {
	Status  int
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (http %d, code %d): %s", e.Status, e.Code, e.Message)
}

// APIError is a non-success response from an endpoint without a more
// specific error type.
type APIError struct {
	Endpoint string
	Status   int
	Code     int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed (http %d, code %d): %s", e.Endpoint, e.Status, e.Code, e.Message)
}

// ParseError marks a response body that could not be decoded. It is kept
// distinct from AuthError and TradeSearchError so operators can tell
// rejected credentials apart from a broken API contract.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TradeSearchError is a failed trade search scoped to one account. The
// orchestrator records it without aborting other accounts.
type TradeSearchError struct {
	AccountID int64
	Status    int
	Code      int
	Message   string
}

func (e *TradeSearchError) Error() string {
	return fmt.Sprintf("trade search failed for account %d (http %d, code %d): %s",
		e.AccountID, e.Status, e.Code, e.Message)
}
