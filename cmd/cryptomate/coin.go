package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/format"
)

// coinCmd holds the flags for the 'coin' subcommand.
type coinCmd struct{}

func (*coinCmd) Name() string     { return "coin" }
func (*coinCmd) Synopsis() string { return "show the full detail for one coin" }
func (*coinCmd) Usage() string {
	return `cryptomate coin <coin-id>

  Shows price, supply, sentiment and developer data for a coin.
  The coin id is the listing identifier, e.g. "bitcoin".
`
}

func (c *coinCmd) SetFlags(f *flag.FlagSet) {}

func (c *coinCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	detail, err := a.facade.CoinDetail(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s (%s)  rank #%d\n", detail.Name, strings.ToUpper(detail.Symbol), detail.MarketCapRank)
	fmt.Printf("  Price:        %s (%s 24h)\n",
		format.Money(detail.CurrentPrice), format.SignedPercent(detail.PriceChangePercentage24h))
	fmt.Printf("  Market cap:   %s\n", format.Compact(detail.MarketCap))
	fmt.Printf("  Volume 24h:   %s\n", format.Compact(detail.TotalVolume))
	fmt.Printf("  24h range:    %s - %s\n", format.Money(detail.Low24h), format.Money(detail.High24h))
	fmt.Printf("  ATH:          %s (%s)\n", format.Money(detail.Ath), format.SignedPercent(detail.AthChangePercentage))
	fmt.Printf("  Supply:       %.0f circulating\n", detail.CirculatingSupply)
	if detail.SentimentUp > 0 || detail.SentimentDown > 0 {
		fmt.Printf("  Sentiment:    %.1f%% up / %.1f%% down\n", detail.SentimentUp, detail.SentimentDown)
	}
	if detail.DeveloperData.Stars > 0 {
		fmt.Printf("  Developer:    %d stars, %d forks, %d merged PRs\n",
			detail.DeveloperData.Stars, detail.DeveloperData.Forks, detail.DeveloperData.PullRequestsMerged)
	}
	if len(detail.Categories) > 0 {
		fmt.Printf("  Categories:   %s\n", strings.Join(detail.Categories, ", "))
	}
	if detail.Description != "" {
		fmt.Printf("\n%s\n", format.Truncate(detail.Description, 500))
	}
	return subcommands.ExitSuccess
}
