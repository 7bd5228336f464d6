package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the default Store implementation.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) AppendRows(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(trade_id, account_id, contract_id, ts, price, size, pnl, fees, side, voided, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.TradeID, r.AccountID, r.ContractID,
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.Price, r.Size, r.PnL, r.Fees, r.Side, r.Voided, r.OrderID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Rows returns every ledger row in insertion order. A row whose stored
// timestamp does not parse comes back with a zero Timestamp; callers
// skip it rather than failing the scan.
func (s *SQLite) Rows() ([]StoredRow, error) {
	rows, err := s.db.Query(`
		SELECT rowid, trade_id, account_id, contract_id, ts, price, size, pnl, fees, side, voided, order_id
		FROM trades
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredRow
	for rows.Next() {
		var (
			rec StoredRow
			ts  string
		)
		if err := rows.Scan(
			&rec.Pos,
			&rec.TradeID,
			&rec.AccountID,
			&rec.ContractID,
			&ts,
			&rec.Price,
			&rec.Size,
			&rec.PnL,
			&rec.Fees,
			&rec.Side,
			&rec.Voided,
			&rec.OrderID,
		); err != nil {
			return nil, err
		}
		if t, err := ParseTimestamp(ts); err == nil {
			rec.Timestamp = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRows removes the rows addressed by the given rowids in a single
// transaction.
func (s *SQLite) DeleteRows(positions []int64) error {
	if len(positions) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`DELETE FROM trades WHERE rowid = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, pos := range positions {
		if _, err := stmt.Exec(pos); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
