// Package ledger is the persistent trade ledger: a tabular row store
// holding every ingested fill across all dates, plus the replace-by-day
// reconciler that keeps re-runs idempotent.
package ledger

import (
	"database/sql"
	"time"

	"github.com/rustyeddy/tsxledger/topstepx"
)

// Row is one ledger entry for an executed fill.
type Row struct {
	TradeID    int64
	AccountID  int64
	ContractID string

	// Timestamp is resolved to a canonical time.Time when the row is
	// read; it is zero when the stored value could not be parsed.
	Timestamp time.Time

	Price   float64
	Size    float64
	PnL     sql.NullFloat64 // invalid for fills that did not close a position
	Fees    float64
	Side    string // "buy" or "sell"
	Voided  string // "yes" or "no"
	OrderID int64
}

// Date returns the row's UTC calendar date, or ok=false when the stored
// timestamp could not be parsed.
func (r Row) Date() (string, bool) {
	if r.Timestamp.IsZero() {
		return "", false
	}
	return r.Timestamp.UTC().Format("2006-01-02"), true
}

// StoredRow is a Row plus the store-assigned position that addresses it
// for deletion. Positions are stable identifiers, not live indices.
type StoredRow struct {
	Pos int64
	Row
}

// Store is the tabular sink the reconciler mutates and the aggregator
// reads. Implementations must preserve insertion order in Rows.
type Store interface {
	AppendRows(rows []Row) error
	Rows() ([]StoredRow, error)
	DeleteRows(positions []int64) error
	Close() error
}

const (
	SideBuy  = "buy"
	SideSell = "sell"

	VoidedYes = "yes"
	VoidedNo  = "no"
)

// FromTrade maps an API fill to a ledger row. Side and the voided flag
// become two-valued labels for storage.
func FromTrade(t topstepx.Trade) Row {
	r := Row{
		TradeID:    t.ID,
		AccountID:  t.AccountID,
		ContractID: t.ContractID,
		Timestamp:  t.Timestamp.UTC(),
		Price:      t.Price,
		Size:       t.Size,
		Fees:       t.Fees,
		Side:       t.Side.String(),
		Voided:     VoidedNo,
		OrderID:    t.OrderID,
	}
	if t.Voided {
		r.Voided = VoidedYes
	}
	if t.ProfitAndLoss != nil {
		r.PnL = sql.NullFloat64{Float64: *t.ProfitAndLoss, Valid: true}
	}
	return r
}
