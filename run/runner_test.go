package run

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tsxledger/ledger"
	"github.com/rustyeddy/tsxledger/topstepx"
)

// fakeAPI serves the three endpoints the runner touches. Trade search
// responses are keyed by account id so tests can fail one account while
// others succeed.
type fakeAPI struct {
	authBody  string
	accounts  string
	tradesFor map[int64]string
}

func defaultAPI() *fakeAPI {
	return &fakeAPI{
		authBody: `{"success":true,"errorCode":0,"token":"tok-1"}`,
		accounts: `{"success":true,"errorCode":0,"accounts":[
			{"id":101,"name":"EXPRESS-1"},
			{"id":102,"name":"PRACTICEMAY0188"},
			{"id":103,"name":"50K-COMBINE"}
		]}`,
		tradesFor: map[int64]string{
			101: `{"success":true,"errorCode":0,"trades":[
				{"id":1,"accountId":101,"contractId":"CON.F.US.EP.M25","timestamp":"2025-05-09T14:30:00.000Z",
				 "price":5310,"size":1,"profitAndLoss":10,"fees":1,"side":1,"voided":false,"orderId":11}
			]}`,
			103: `{"success":true,"errorCode":0,"trades":[
				{"id":2,"accountId":103,"contractId":"CON.F.US.NQ.M25","timestamp":"2025-05-09T15:00:00.000Z",
				 "price":18500,"size":1,"profitAndLoss":-4,"fees":0.5,"side":0,"voided":false,"orderId":12}
			]}`,
		},
	}
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Auth/loginKey":
			w.Write([]byte(f.authBody))
		case "/api/Account/search":
			w.Write([]byte(f.accounts))
		case "/api/Trade/search":
			var req struct {
				AccountID int64 `json:"accountId"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			body, ok := f.tradesFor[req.AccountID]
			if !ok {
				body = `{"success":false,"errorCode":2,"errorMessage":"account not found"}`
			}
			w.Write([]byte(body))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

type recordingNotifier struct {
	reports []*Report
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, r *Report) error {
	n.reports = append(n.reports, r)
	return n.err
}

func newTestRunner(t *testing.T, api *fakeAPI, cfg Config, notifiers ...Notifier) (*Runner, ledger.Store) {
	t.Helper()

	server := httptest.NewServer(api.handler(t))
	t.Cleanup(server.Close)

	store, err := ledger.NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	client := topstepx.NewClient(server.URL, topstepx.Credentials{UserName: "u", APIKey: "k"}, zerolog.Nop())
	return New(client, store, cfg, zerolog.Nop(), notifiers...), store
}

func TestForDateSuccess(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	runner, store := newTestRunner(t, defaultAPI(), Config{Aggregate: true}, notifier)

	report := runner.ForDate(context.Background(), "2025-05-09")
	require.NotNil(t, report)

	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Accounts) // practice account filtered out
	assert.Equal(t, 2, report.Trades)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 2, report.Reconcile.Added)

	require.Len(t, report.Aggregates, 1)
	assert.Equal(t, "2025-05-09", report.Aggregates[0].Date)
	assert.Equal(t, 6.0, report.Aggregates[0].TotalPnL)
	assert.Equal(t, 1.5, report.Aggregates[0].TotalFees)
	assert.Equal(t, 4.5, report.Aggregates[0].NetProfit)

	rows, err := store.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Deterministic order regardless of pool scheduling.
	assert.Equal(t, int64(1), rows[0].TradeID)
	assert.Equal(t, int64(2), rows[1].TradeID)

	require.Len(t, notifier.reports, 1)
	assert.Same(t, report, notifier.reports[0])
}

// One of the accounts fails its trade search; the others' trades still
// land in the ledger and the run is partial.
func TestForDatePartial(t *testing.T) {
	t.Parallel()

	api := defaultAPI()
	delete(api.tradesFor, 103)

	runner, store := newTestRunner(t, api, Config{})
	report := runner.ForDate(context.Background(), "2025-05-09")

	assert.Equal(t, OutcomePartial, report.Outcome)
	assert.Equal(t, 1, report.Trades)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(103), report.Failures[0].AccountID)

	rows, err := store.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(101), rows[0].AccountID)
}

func TestForDateAllAccountsFail(t *testing.T) {
	t.Parallel()

	api := defaultAPI()
	api.tradesFor = nil

	runner, store := newTestRunner(t, api, Config{})
	report := runner.ForDate(context.Background(), "2025-05-09")

	assert.Equal(t, OutcomeFailed, report.Outcome)
	require.Len(t, report.Failures, 2)

	// Nothing was deleted: a fully failed fetch must not empty the day.
	rows, err := store.Rows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestForDateAuthFailure(t *testing.T) {
	t.Parallel()

	api := defaultAPI()
	api.authBody = `{"success":false,"errorCode":3,"errorMessage":"invalid credentials"}`

	notifier := &recordingNotifier{}
	runner, _ := newTestRunner(t, api, Config{}, notifier)
	report := runner.ForDate(context.Background(), "2025-05-09")

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Contains(t, report.Err, "invalid credentials")
	assert.Zero(t, report.Accounts)

	// The report still reaches the notifier on a fatal outcome.
	require.Len(t, notifier.reports, 1)
}

func TestForDateNoTradableAccounts(t *testing.T) {
	t.Parallel()

	api := defaultAPI()
	api.accounts = `{"success":true,"errorCode":0,"accounts":[{"id":9,"name":"PRACTICEAPR77"}]}`

	runner, _ := newTestRunner(t, api, Config{})
	report := runner.ForDate(context.Background(), "2025-05-09")

	assert.Equal(t, OutcomeNoop, report.Outcome)
}

func TestForDateInvalidDate(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(t, defaultAPI(), Config{})
	report := runner.ForDate(context.Background(), "not-a-date")

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Contains(t, report.Err, "YYYY-MM-DD")
}

// A notifier blowing up is logged and dropped; the outcome stands.
func TestNotifierFailureIsolated(t *testing.T) {
	t.Parallel()

	bad := &recordingNotifier{err: fmt.Errorf("webhook down")}
	good := &recordingNotifier{}

	runner, _ := newTestRunner(t, defaultAPI(), Config{}, bad, good)
	report := runner.ForDate(context.Background(), "2025-05-09")

	assert.Equal(t, OutcomeSuccess, report.Outcome)
	require.Len(t, good.reports, 1)
}

func TestForDateRerunIdempotent(t *testing.T) {
	t.Parallel()

	runner, store := newTestRunner(t, defaultAPI(), Config{})

	first := runner.ForDate(context.Background(), "2025-05-09")
	require.Equal(t, OutcomeSuccess, first.Outcome)

	second := runner.ForDate(context.Background(), "2025-05-09")
	require.Equal(t, OutcomeSuccess, second.Outcome)
	assert.Equal(t, 2, second.Reconcile.Removed)
	assert.Equal(t, 2, second.Reconcile.Added)

	rows, err := store.Rows()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
