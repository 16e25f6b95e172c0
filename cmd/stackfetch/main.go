package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfetch/internal/cli"
	"github.com/matzehuels/stackfetch/pkg/errors"
)

// Exit codes beyond the usual 0 and 1.
const (
	exitInput       = 2   // bad dependency, repository or Scala input
	exitFetch       = 3   // resolution or download failure
	exitInterrupted = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// exitCode maps err to a process exit status. Composite errors exit with
// the status of their first failure.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if leaves := errors.Flatten(err); len(leaves) > 0 {
		err = leaves[0]
	}
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDependency,
		errors.ErrCodeRepositoryFormat, errors.ErrCodeMissingScalaVersion:
		return exitInput
	case errors.ErrCodeFetchingDependencies, errors.ErrCodePackageNotFound,
		errors.ErrCodeNotFound, errors.ErrCodeNetwork:
		return exitFetch
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
