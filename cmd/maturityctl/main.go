package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Checker-Finance/maturity-client/internal/apierr"
	"github.com/Checker-Finance/maturity-client/internal/config"
	"github.com/Checker-Finance/maturity-client/internal/services"
)

// current is set by the root command before any subcommand runs.
var current *app

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "maturityctl",
		Short:         "Command-line client for the AI maturity assessment API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), config.Load(), startRoute(cmd), out, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
	}
	root.SetOut(out)
	root.AddCommand(
		signinCmd(), signupCmd(), signoutCmd(), whoamiCmd(),
		assessmentCmd(), billingCmd(), teamCmd(), usecaseCmd(), termsCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	if current != nil {
		current.close()
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error: "+userMessage(err))
		stop()
		os.Exit(1)
	}
}

// userMessage reduces any failure to one line for the terminal.
func userMessage(err error) string {
	var ce *apierr.Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return apierr.Classify(err).Message
}

// check turns a failed Result into the error main prints.
func check[T any](res services.Result[T]) (T, error) {
	if !res.Success {
		return res.Data, res.Error
	}
	return res.Data, nil
}
