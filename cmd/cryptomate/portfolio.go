package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/format"
	"github.com/meshivamsingh/cryptoMate/internal/portfolio"
)

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list portfolio holdings" }
func (*listCmd) Usage() string {
	return `cryptomate list

  Lists all holdings in insertion order.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	assets := a.facade.Assets()
	if len(assets) == 0 {
		fmt.Println("Portfolio is empty.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tQUANTITY\tAVG PRICE\tCOST\tSINCE")
	for _, asset := range assets {
		fmt.Fprintf(w, "%s (%s)\t%v\t%s\t%s\t%s\n",
			asset.Name,
			strings.ToUpper(asset.Symbol),
			asset.Quantity,
			format.Money(asset.PurchasePrice),
			format.Money(asset.Quantity*asset.PurchasePrice),
			asset.PurchaseDate.Format("2006-01-02"),
		)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	quantity float64
	price    float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a purchase to the portfolio" }
func (*addCmd) Usage() string {
	return `cryptomate add -qty <quantity> -price <price> <coin-id>

  Adds a purchase lot. Buying a coin already held accumulates the
  quantity and re-averages the purchase price by quantity.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.quantity, "qty", 0, "quantity purchased")
	f.Float64Var(&c.price, "price", 0, "purchase price per coin in USD")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	coinID := f.Arg(0)
	candidate := portfolio.Candidate{
		ID:            coinID,
		Quantity:      c.quantity,
		PurchasePrice: c.price,
	}

	// Resolve display metadata from the live listing so the stored holding
	// carries a proper name and image. A lookup failure is not fatal.
	if detail, err := a.facade.CoinDetail(ctx, coinID); err == nil {
		candidate.Symbol = detail.Symbol
		candidate.Name = detail.Name
		candidate.Image = detail.Image
	} else {
		a.logger.Warn().Str("coin", coinID).Str("error", err.Error()).Msg("could not resolve coin metadata")
		candidate.Symbol = coinID
		candidate.Name = coinID
	}

	if err := a.facade.AddAsset(ctx, candidate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	quantity float64
	price    float64
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "replace the quantity and price of a holding" }
func (*updateCmd) Usage() string {
	return `cryptomate update -qty <quantity> -price <price> <coin-id>

  Replaces a holding's quantity and purchase price outright, with no
  averaging. Unknown coin ids are ignored.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.quantity, "qty", 0, "new quantity")
	f.Float64Var(&c.price, "price", 0, "new purchase price per coin in USD")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.facade.UpdateAsset(ctx, f.Arg(0), c.quantity, c.price); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// removeCmd holds the flags for the 'remove' subcommand.
type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding from the portfolio" }
func (*removeCmd) Usage() string {
	return `cryptomate remove <coin-id>

  Removes a holding. Unknown coin ids are ignored.
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.facade.RemoveAsset(ctx, f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	force bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value the portfolio at current prices" }
func (*valueCmd) Usage() string {
	return `cryptomate value [-force]

  Values every holding at its current market price and shows the
  aggregate profit and loss.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "bypass the freshness window and refetch")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	assets := a.facade.Assets()
	if len(assets) == 0 {
		fmt.Println("Portfolio is empty.")
		return subcommands.ExitSuccess
	}

	a.facade.Refresh(ctx, c.force)
	snap := a.facade.Snapshot()
	if snap.Markets.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", snap.Markets.Err)
		return subcommands.ExitFailure
	}

	index := a.facade.PriceIndex()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tQUANTITY\tPRICE\tVALUE\tP/L\tP/L %")
	for _, asset := range assets {
		coin, priced := index[asset.ID]
		metrics, ok := a.facade.AssetMetrics(asset.ID)
		if !priced || !ok {
			fmt.Fprintf(w, "%s (%s)\t%v\t-\t-\t-\t-\n",
				asset.Name, strings.ToUpper(asset.Symbol), asset.Quantity)
			continue
		}
		fmt.Fprintf(w, "%s (%s)\t%v\t%s\t%s\t%s\t%s\n",
			asset.Name,
			strings.ToUpper(asset.Symbol),
			asset.Quantity,
			format.Money(coin.CurrentPrice),
			format.Money(metrics.Value),
			format.SignedMoney(metrics.ProfitLoss),
			format.SignedPercent(metrics.ProfitLossPercent),
		)
	}
	w.Flush()

	valuation := a.facade.Valuation()
	fmt.Println()
	fmt.Printf("Total value:  %s\n", format.Money(valuation.TotalValue))
	fmt.Printf("Total cost:   %s\n", format.Money(valuation.TotalCost))
	fmt.Printf("Total P/L:    %s (%s performance)\n",
		format.SignedMoney(valuation.TotalProfitLoss),
		format.SignedPercent(portfolio.PerformancePercent(valuation.TotalProfitLoss, valuation.TotalValue)))
	return subcommands.ExitSuccess
}
