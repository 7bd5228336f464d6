package topstepx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rustyeddy/tsxledger/window"
)

// Millisecond-precision RFC 3339, matching the API's window filters.
const apiTimeLayout = "2006-01-02T15:04:05.000Z07:00"

type tradeSearchRequest struct {
	AccountID      int64  `json:"accountId"`
	StartTimestamp string `json:"startTimestamp"`
	EndTimestamp   string `json:"endTimestamp"`
}

// SearchTrades fetches every fill for one account inside the given day
// window. The endpoint returns the whole window in a single response
// (there is no continuation cursor), so one request covers one account.
//
// An empty result is a valid outcome, not an error. Failures — including
// transport timeouts — come back as a *TradeSearchError scoped to the
// account, so one account cannot abort the others.
func (c *Client) SearchTrades(ctx context.Context, accountID int64, w window.Window) ([]Trade, error) {
	const path = "/api/Trade/search"

	status, body, err := c.post(ctx, path, tradeSearchRequest{
		AccountID:      accountID,
		StartTimestamp: w.Start.Format(apiTimeLayout),
		EndTimestamp:   w.End.Format(apiTimeLayout),
	})
	if err != nil {
		return nil, &TradeSearchError{AccountID: accountID, Message: err.Error()}
	}

	if status != http.StatusOK {
		return nil, &TradeSearchError{AccountID: accountID, Status: status, Message: snippet(body)}
	}

	var out struct {
		envelope
		Trades []Trade `json:"trades"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ParseError{Endpoint: path, Err: err}
	}

	if !out.ok() {
		return nil, &TradeSearchError{AccountID: accountID, Status: status, Code: out.ErrorCode, Message: out.ErrorMessage}
	}

	c.log.Debug().Int64("account_id", accountID).Str("date", w.Date).
		Int("trades", len(out.Trades)).Msg("trade search complete")

	if out.Trades == nil {
		return []Trade{}, nil
	}
	return out.Trades, nil
}
