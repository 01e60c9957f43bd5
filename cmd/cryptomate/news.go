package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/format"
)

// newsCmd holds the flags for the 'news' subcommand.
type newsCmd struct {
	force bool
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "show the latest crypto news headlines" }
func (*newsCmd) Usage() string {
	return `cryptomate news [-force]

  Shows recent headlines. News is best-effort: when no provider is
  reachable the list is simply empty.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "bypass the freshness window and refetch")
}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := appFrom(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	a.facade.Refresh(ctx, c.force)
	snap := a.facade.Snapshot()
	if len(snap.News) == 0 {
		fmt.Println("No news available right now.")
		return subcommands.ExitSuccess
	}

	now := time.Now()
	for _, item := range snap.News {
		fmt.Printf("%s  [%s, %s]\n", item.Title, item.Source, format.RelativeTime(item.PublishedAt, now))
		fmt.Printf("    %s\n", item.URL)
	}
	return subcommands.ExitSuccess
}
