// Package notify delivers finished run reports. Every notifier is
// fire-and-forget: delivery failure is the caller's to log, never to
// propagate into the run it describes.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tsxledger/run"
	"github.com/rustyeddy/tsxledger/stats"
)

// Console prints the report summary, and the aggregate table when the
// run produced one.
type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter is for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Notify(_ context.Context, report *run.Report) error {
	if _, err := fmt.Fprintln(c.out, report.Summary()); err != nil {
		return err
	}

	for _, f := range report.Failures {
		if _, err := fmt.Fprintf(c.out, "  account %d (%s): %s\n", f.AccountID, f.Name, f.Err); err != nil {
			return err
		}
	}

	if len(report.Aggregates) > 0 {
		return stats.RenderTable(c.out, report.Aggregates)
	}
	return nil
}
