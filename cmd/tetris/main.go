// Command tetris inspects hierarchical cell designs described in TOML.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tetris/internal/cli"
	"github.com/matzehuels/tetris/pkg/errors"
)

// Exit codes. Designs rejected while loading exit with exitBadDesign.
const (
	exitOK          = 0
	exitFailure     = 1
	exitBadDesign   = 2
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	if err != nil && !stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, errors.UserMessage(err))
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOutline,
		errors.ErrCodeNotFound, errors.ErrCodeDuplicate, errors.ErrCodeCycle:
		return exitBadDesign
	}
	return exitFailure
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log library events at debug level")

	// The level must be set before the root hook hands the logger to the
	// library hooks.
	bindHooks := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if bindHooks != nil {
			return bindHooks(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
