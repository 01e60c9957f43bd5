package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/format"
)

// globalCmd holds the flags for the 'global' subcommand.
type globalCmd struct {
	force bool
}

func (*globalCmd) Name() string     { return "global" }
func (*globalCmd) Synopsis() string { return "show aggregate market statistics" }
func (*globalCmd) Usage() string {
	return `cryptomate global [-force]

  Shows total market cap, 24h volume and BTC dominance.
`
}

func (c *globalCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "bypass the freshness window and refetch")
}

func (c *globalCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	a.facade.Refresh(ctx, c.force)
	snap := a.facade.Snapshot()
	if snap.GlobalStats.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", snap.GlobalStats.Err)
		return subcommands.ExitFailure
	}
	if snap.Global == nil {
		fmt.Fprintln(os.Stderr, "Error: no global stats available")
		return subcommands.ExitFailure
	}

	fmt.Printf("Total market cap:  %s (%s 24h)\n",
		format.Compact(snap.Global.TotalMarketCapUSD),
		format.SignedPercent(snap.Global.MarketCapChange24Pct))
	fmt.Printf("24h volume:        %s\n", format.Compact(snap.Global.TotalVolumeUSD))
	fmt.Printf("BTC dominance:     %.2f%%\n", snap.Global.BTCDominance)
	return subcommands.ExitSuccess
}
