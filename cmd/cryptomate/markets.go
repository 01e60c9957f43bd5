package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/format"
)

// marketsCmd holds the flags for the 'markets' subcommand.
type marketsCmd struct {
	force bool
}

func (*marketsCmd) Name() string     { return "markets" }
func (*marketsCmd) Synopsis() string { return "list the top coins by market cap" }
func (*marketsCmd) Usage() string {
	return `cryptomate markets [-force]

  Lists the top coins with price, 24h change and market cap.
`
}

func (c *marketsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "bypass the freshness window and refetch")
}

func (c *marketsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	a.facade.Refresh(ctx, c.force)
	snap := a.facade.Snapshot()
	if snap.Markets.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", snap.Markets.Err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tPRICE\t24H\tMARKET CAP")
	for _, coin := range snap.Coins {
		fmt.Fprintf(w, "%d\t%s (%s)\t%s\t%s\t%s\n",
			coin.MarketCapRank,
			coin.Name,
			coin.Symbol,
			format.Money(coin.CurrentPrice),
			format.SignedPercent(coin.PriceChangePercentage24h),
			format.Compact(coin.MarketCap),
		)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
