package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/format"
	"github.com/meshivamsingh/cryptoMate/internal/marketdata"
)

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	timeRange string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "show the historical price series for a coin" }
func (*chartCmd) Usage() string {
	return `cryptomate chart [-range 7d] <coin-id>

  Prints the price series for a coin over a time range.
  Ranges: 24h, 7d, 30d, 90d, 1y, max.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.timeRange, "range", "7d", "time range (24h, 7d, 30d, 90d, 1y, max)")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	rng, err := marketdata.ParseTimeRange(c.timeRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	chart, err := a.facade.Chart(ctx, f.Arg(0), rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(chart.Prices) == 0 {
		fmt.Println("No data points for this range.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPRICE")
	for _, p := range chart.Prices {
		fmt.Fprintf(w, "%s\t%s\n", p.Timestamp.Format("2006-01-02 15:04"), format.Money(p.Value))
	}
	w.Flush()

	first, last := chart.Prices[0].Value, chart.Prices[len(chart.Prices)-1].Value
	if first != 0 {
		fmt.Printf("\nChange over range: %s\n", format.SignedPercent((last-first)/first*100))
	}
	return subcommands.ExitSuccess
}
