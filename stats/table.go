package stats

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable writes the daily aggregates as an aligned text table.
func RenderTable(w io.Writer, days []DailyAggregate) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "ledger is empty, nothing to aggregate")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Date", "Trades", "Gross P&L", "Fees", "Net Profit")

	var totalTrades int
	var totalPnL, totalFees, totalNet float64
	for _, d := range days {
		table.Append(
			d.Date,
			fmt.Sprintf("%d", d.TradeCount),
			fmt.Sprintf("%.2f", d.TotalPnL),
			fmt.Sprintf("%.2f", d.TotalFees),
			fmt.Sprintf("%.2f", d.NetProfit),
		)
		totalTrades += d.TradeCount
		totalPnL += d.TotalPnL
		totalFees += d.TotalFees
		totalNet += d.NetProfit
	}

	table.Append(
		"TOTAL",
		fmt.Sprintf("%d", totalTrades),
		fmt.Sprintf("%.2f", totalPnL),
		fmt.Sprintf("%.2f", totalFees),
		fmt.Sprintf("%.2f", totalNet),
	)

	return table.Render()
}
