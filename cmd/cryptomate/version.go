package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/meshivamsingh/cryptoMate/internal/config"
)

// versionCmd prints build information.
type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print version information" }
func (*versionCmd) Usage() string            { return "cryptomate version\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (c *versionCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	fmt.Printf("cryptomate version %s (build %s, commit %s)\n",
		config.GetVersion(), config.GetBuild(), config.GetGitCommit())
	return subcommands.ExitSuccess
}
