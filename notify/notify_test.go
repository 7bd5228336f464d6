package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tsxledger/ledger"
	"github.com/rustyeddy/tsxledger/run"
	"github.com/rustyeddy/tsxledger/stats"
)

func sampleReport() *run.Report {
	return &run.Report{
		RunID:    "01JTESTRUN",
		Date:     "2025-05-09",
		Outcome:  run.OutcomeSuccess,
		Accounts: 2,
		Trades:   5,
		Reconcile: ledger.Report{
			Date: "2025-05-09", Removed: 5, Added: 5, AddedPnL: 12.5,
		},
		Aggregates: []stats.DailyAggregate{
			{Date: "2025-05-09", TradeCount: 5, TotalPnL: 16.7, TotalFees: 4.2, NetProfit: 12.5},
		},
	}
}

func TestConsoleNotify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	require.NoError(t, c.Notify(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "01JTESTRUN")
	assert.Contains(t, out, "2025-05-09")
	assert.Contains(t, out, "12.50") // aggregate table rendered
}

func TestConsoleNotifyPartial(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Outcome = run.OutcomePartial
	report.Failures = []run.AccountFailure{
		{AccountID: 103, Name: "50K-COMBINE", Err: "timeout"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewConsoleWriter(&buf).Notify(context.Background(), report))
	assert.Contains(t, buf.String(), "account 103 (50K-COMBINE): timeout")
}

func TestWebhookNotify(t *testing.T) {
	t.Parallel()

	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	t.Cleanup(server.Close)

	w := NewWebhook(server.URL, "")
	require.NoError(t, w.Notify(context.Background(), sampleReport()))

	require.Contains(t, got, "text") // Slack shape for non-Discord URLs
	assert.Contains(t, got["text"], "SUCCESS")
	assert.Contains(t, got["text"], "2025-05-09")
}

func TestWebhookDiscordPayload(t *testing.T) {
	t.Parallel()

	w := NewWebhook("https://discord.com/api/webhooks/1/abc", "ledger-bot")
	p := w.payload("hello")
	assert.Equal(t, "hello", p["content"])
	assert.Equal(t, "ledger-bot", p["username"])
}

func TestWebhookServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	err := NewWebhook(server.URL, "").Notify(context.Background(), sampleReport())
	assert.Error(t, err)
}
