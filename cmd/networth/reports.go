package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"networth/internal/backend"
	"networth/internal/core"
	"networth/internal/log"
)

// window holds the date flags shared by the report commands.
type window struct {
	start, end, asOf string
	json             bool
}

func (w *window) setFlags(f *flag.FlagSet, withRange, withAsOf bool) {
	if withRange {
		f.StringVar(&w.start, "s", "", "first day of the window (default: one year before -e)")
		f.StringVar(&w.end, "e", "", "day after the last day of the window (default: tomorrow)")
	}
	if withAsOf {
		f.StringVar(&w.asOf, "d", "", "read the latest entry on or before this day (default: today)")
	}
	f.BoolVar(&w.json, "json", false, "print JSON instead of markdown")
}

// bounds resolves the half-open [start, end) window.
func (w *window) bounds(today core.Date) (core.Date, core.Date, error) {
	end, err := parseDateFlag("e", w.end, core.DateOf(today.AddDate(0, 0, 1)))
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	start, err := parseDateFlag("s", w.start, core.DateOf(end.AddDate(-1, 0, 0)))
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

type aggregatesCmd struct {
	app *app
	window
}

func (*aggregatesCmd) Name() string     { return "aggregates" }
func (*aggregatesCmd) Synopsis() string { return "show the categorised totals of every entry in a window" }
func (*aggregatesCmd) Usage() string {
	return `networth [-uid <uid>] aggregates [-s <YYYY-MM-DD>] [-e <YYYY-MM-DD>] [-json]

  Prints assets, liabilities, pension, options, illiquid equity, liquid cash,
  locked cash and investments for every entry dated in [s, e), newest first.
`
}

func (c *aggregatesCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, true, false) }

func (c *aggregatesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, end, err := c.bounds(c.app.today())
	if err != nil {
		return c.app.fail(ctx, log.OpAggregate, err)
	}
	return c.app.run(ctx, log.OpAggregate, func(b *backend.BackendResult) error {
		rows, err := b.Entries.ReadAggregates(ctx, *c.app.uid, start, end)
		if err != nil {
			return err
		}
		if c.json {
			return c.app.writeJSON(rows)
		}
		return c.app.renderer().Aggregates(c.app.out, aggregatesView{Start: start, End: end, Rows: rows})
	})
}

type cashCmd struct {
	app *app
	window
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "show liquid cash and investments of the latest entry" }
func (*cashCmd) Usage() string {
	return `networth [-uid <uid>] cash [-d <YYYY-MM-DD>] [-json]
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, false, true) }

func (c *cashCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseDateFlag("d", c.asOf, c.app.today())
	if err != nil {
		return c.app.fail(ctx, log.OpRead, err)
	}
	return c.app.run(ctx, log.OpRead, func(b *backend.BackendResult) error {
		cash, err := b.Entries.ReadLatestCashPosition(ctx, *c.app.uid, asOf)
		if err != nil {
			return err
		}
		if c.json {
			return c.app.writeJSON(cash)
		}
		return c.app.renderer().Cash(c.app.out, cash)
	})
}

type summaryCmd struct {
	app *app
	window
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show aggregates and the latest cash position together" }
func (*summaryCmd) Usage() string {
	return `networth [-uid <uid>] summary [-s <YYYY-MM-DD>] [-e <YYYY-MM-DD>] [-d <YYYY-MM-DD>] [-json]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, true, true) }

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today := c.app.today()
	start, end, err := c.bounds(today)
	if err != nil {
		return c.app.fail(ctx, log.OpAggregate, err)
	}
	asOf, err := parseDateFlag("d", c.asOf, today)
	if err != nil {
		return c.app.fail(ctx, log.OpAggregate, err)
	}
	return c.app.run(ctx, log.OpAggregate, func(b *backend.BackendResult) error {
		summary, err := b.Entries.ReadSummary(ctx, *c.app.uid, start, end, asOf)
		if err != nil {
			return err
		}
		if c.json {
			return c.app.writeJSON(summary)
		}
		view := aggregatesView{Start: start, End: end, Rows: summary.Aggregates}
		return c.app.renderer().Summary(c.app.out, view, summary.Cash)
	})
}

type loansCmd struct {
	app  *app
	json bool
}

func (*loansCmd) Name() string     { return "loans" }
func (*loansCmd) Synopsis() string { return "show the recorded history of every loan" }
func (*loansCmd) Usage() string {
	return `networth [-uid <uid>] loans [-json]
`
}

func (c *loansCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print JSON instead of markdown")
}

func (c *loansCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, log.OpRead, func(b *backend.BackendResult) error {
		loans, err := b.Entries.ReadLoans(ctx, *c.app.uid)
		if err != nil {
			return err
		}
		if c.json {
			return c.app.writeJSON(loans)
		}
		return c.app.renderer().Loans(c.app.out, loans)
	})
}
