package ledger

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"trade_id", "account_id", "contract_id", "timestamp",
	"price", "size", "pnl", "fees", "side", "voided", "order_id",
}

// CSVStore is a flat-file Store for setups without SQLite. Deletion
// rewrites the file through a temp-and-rename, so a failed rewrite
// leaves the original rows untouched.
type CSVStore struct {
	path string
}

func NewCSV(path string) (*CSVStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return &CSVStore{path: path}, nil
}

func (c *CSVStore) AppendRows(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	for _, r := range rows {
		if err := w.Write(encodeRow(r)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Rows returns every row in file order. Positions are 1-based record
// indices (the header is record 0).
func (c *CSVStore) Rows() ([]StoredRow, error) {
	records, err := c.readAll()
	if err != nil {
		return nil, err
	}

	out := make([]StoredRow, 0, len(records))
	for i, rec := range records {
		row, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, StoredRow{Pos: int64(i + 1), Row: row})
	}
	return out, nil
}

func (c *CSVStore) DeleteRows(positions []int64) error {
	if len(positions) == 0 {
		return nil
	}

	records, err := c.readAll()
	if err != nil {
		return err
	}

	doomed := make(map[int64]bool, len(positions))
	for _, p := range positions {
		doomed[p] = true
	}

	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	for i, rec := range records {
		if doomed[int64(i+1)] {
			continue
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, c.path)
}

func (c *CSVStore) Close() error {
	return nil
}

// readAll returns the data records, header excluded.
func (c *CSVStore) readAll() ([][]string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func encodeRow(r Row) []string {
	pnl := ""
	if r.PnL.Valid {
		pnl = strconv.FormatFloat(r.PnL.Float64, 'f', -1, 64)
	}
	return []string{
		strconv.FormatInt(r.TradeID, 10),
		strconv.FormatInt(r.AccountID, 10),
		r.ContractID,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		strconv.FormatFloat(r.Price, 'f', -1, 64),
		strconv.FormatFloat(r.Size, 'f', -1, 64),
		pnl,
		strconv.FormatFloat(r.Fees, 'f', -1, 64),
		r.Side,
		r.Voided,
		strconv.FormatInt(r.OrderID, 10),
	}
}

func decodeRow(rec []string) (Row, error) {
	if len(rec) != len(csvHeader) {
		return Row{}, fmt.Errorf("want %d fields, got %d", len(csvHeader), len(rec))
	}

	var (
		r   Row
		err error
	)
	if r.TradeID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
		return Row{}, fmt.Errorf("trade_id: %w", err)
	}
	if r.AccountID, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
		return Row{}, fmt.Errorf("account_id: %w", err)
	}
	r.ContractID = rec[2]

	// Unparseable timestamps degrade to a zero Timestamp; the row is
	// skipped downstream instead of failing the whole read.
	if t, err := ParseTimestamp(rec[3]); err == nil {
		r.Timestamp = t
	}

	if r.Price, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return Row{}, fmt.Errorf("price: %w", err)
	}
	if r.Size, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return Row{}, fmt.Errorf("size: %w", err)
	}
	if rec[6] != "" {
		v, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return Row{}, fmt.Errorf("pnl: %w", err)
		}
		r.PnL = sql.NullFloat64{Float64: v, Valid: true}
	}
	if r.Fees, err = strconv.ParseFloat(rec[7], 64); err != nil {
		return Row{}, fmt.Errorf("fees: %w", err)
	}
	r.Side = rec[8]
	r.Voided = rec[9]
	if r.OrderID, err = strconv.ParseInt(rec[10], 10, 64); err != nil {
		return Row{}, fmt.Errorf("order_id: %w", err)
	}
	return r, nil
}
