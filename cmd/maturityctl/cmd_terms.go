package main

import (
	"github.com/spf13/cobra"

	"github.com/Checker-Finance/maturity-client/internal/services"
)

func termsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Print the Terms of Service (HTML)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			terms, err := check(services.Wrap(current.terms.Fetch(cmd.Context())))
			if err != nil {
				return err
			}
			current.printf("%s\n", terms.Content)
			return nil
		},
	}
}
