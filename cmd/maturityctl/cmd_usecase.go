package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Checker-Finance/maturity-client/internal/services"
)

func usecaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usecase",
		Short: "Browse and import the use-case library",
	}

	var category, cursor string
	list := &cobra.Command{
		Use:   "list",
		Short: "List use cases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := check(services.Wrap(current.usecases.List(cmd.Context(), category, cursor)))
			if err != nil {
				return err
			}
			for _, uc := range page.Items {
				current.printf("%-12s %-18s %s\n", uc.ID, uc.Category, uc.Title)
			}
			if page.NextCursor != "" {
				current.printf("more: --cursor %s\n", page.NextCursor)
			}
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "", "filter by category")
	list.Flags().StringVar(&cursor, "cursor", "", "page cursor from a previous call")

	importCmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk-import use cases from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			sum, err := check(services.Wrap(current.usecases.Import(cmd.Context(), filepath.Base(args[0]), f)))
			if err != nil {
				return err
			}
			current.printf("Imported %d, skipped %d\n", sum.Imported, sum.Skipped)
			for _, e := range sum.Errors {
				current.printf("  %s\n", e)
			}
			return nil
		},
	}

	cmd.AddCommand(list, importCmd)
	return cmd
}
