package topstepx

import "time"

// Side is the direction of a fill as encoded by the API.
type Side int

const (
	Buy  Side = 0
	Sell Side = 1
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Trade is one executed order fill returned by /api/Trade/search.
type Trade struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"accountId"`
	ContractID    string    `json:"contractId"`
	Timestamp     time.Time `json:"timestamp"`
	Price         float64   `json:"price"`
	Size          float64   `json:"size"`
	ProfitAndLoss *float64  `json:"profitAndLoss"` // nil for fills that did not close a position
	Fees          float64   `json:"fees"`
	Side          Side      `json:"side"`
	Voided        bool      `json:"voided"`
	OrderID       int64     `json:"orderId"`
}

// Account is one trading account visible to the authenticated user.
type Account struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	CanTrade  bool    `json:"canTrade"`
	IsVisible bool    `json:"isVisible"`
}

// envelope is the application-level status every API response carries,
// independent of the HTTP status code. Both must be checked.
type envelope struct {
	Success      bool   `json:"success"`
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (e envelope) ok() bool {
	return e.Success && e.ErrorCode == 0
}
