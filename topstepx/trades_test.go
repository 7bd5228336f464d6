package topstepx

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tsxledger/window"
)

func TestSearchTrades(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Trade/search", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(101), req["accountId"])
		assert.Equal(t, "2025-05-09T00:00:00.000Z", req["startTimestamp"])
		assert.Equal(t, "2025-05-09T23:59:59.999Z", req["endTimestamp"])

		w.Write([]byte(`{
			"success": true, "errorCode": 0,
			"trades": [
				{"id": 8801, "accountId": 101, "contractId": "CON.F.US.EP.M25",
				 "timestamp": "2025-05-09T14:30:12.000Z", "price": 5310.25, "size": 2,
				 "profitAndLoss": 125.5, "fees": 4.2, "side": 1, "voided": false, "orderId": 9001},
				{"id": 8802, "accountId": 101, "contractId": "CON.F.US.EP.M25",
				 "timestamp": "2025-05-09T14:28:02.000Z", "price": 5309.0, "size": 2,
				 "profitAndLoss": null, "fees": 4.2, "side": 0, "voided": false, "orderId": 9000}
			]
		}`))
	})

	w9, err := window.Day("2025-05-09")
	require.NoError(t, err)

	trades, err := c.SearchTrades(context.Background(), 101, w9)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, int64(8801), trades[0].ID)
	assert.Equal(t, Sell, trades[0].Side)
	require.NotNil(t, trades[0].ProfitAndLoss)
	assert.Equal(t, 125.5, *trades[0].ProfitAndLoss)
	assert.Equal(t, time.Date(2025, 5, 9, 14, 30, 12, 0, time.UTC), trades[0].Timestamp.UTC())

	// Opening fill carries no realized P&L.
	assert.Nil(t, trades[1].ProfitAndLoss)
	assert.Equal(t, Buy, trades[1].Side)
}

func TestSearchTradesEmptyWindow(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"errorCode":0,"trades":[]}`))
	})

	w9, err := window.Day("2025-05-09")
	require.NoError(t, err)

	trades, err := c.SearchTrades(context.Background(), 101, w9)
	require.NoError(t, err)
	assert.NotNil(t, trades)
	assert.Empty(t, trades)
}

func TestSearchTradesFailureScopedToAccount(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"errorCode":2,"errorMessage":"account not found"}`))
	})

	w9, err := window.Day("2025-05-09")
	require.NoError(t, err)

	_, err = c.SearchTrades(context.Background(), 777, w9)
	var searchErr *TradeSearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, int64(777), searchErr.AccountID)
	assert.Equal(t, 2, searchErr.Code)
}

func TestSideString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
}
