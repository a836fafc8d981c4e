package main

import (
	"github.com/spf13/cobra"

	"github.com/Checker-Finance/maturity-client/internal/services"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

func assessmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "List, inspect and compare assessments",
	}

	var status, cursor string
	list := &cobra.Command{
		Use:   "list",
		Short: "List assessments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := check(services.Wrap(current.assessments.List(cmd.Context(), status, cursor)))
			if err != nil {
				return err
			}
			for _, a := range page.Items {
				current.printf("%-12s %-12s %6.1f  %s\n", a.ID, a.Status, a.Score, a.Title)
			}
			if page.NextCursor != "" {
				current.printf("more: --cursor %s\n", page.NextCursor)
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status (draft, in_progress, completed)")
	list.Flags().StringVar(&cursor, "cursor", "", "page cursor from a previous call")

	result := &cobra.Command{
		Use:   "result <id>",
		Short: "Show the scored result of an assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := check(services.Wrap(current.assessments.Result(cmd.Context(), args[0])))
			if err != nil {
				return err
			}
			current.printf("%s: %.1f (%s)\n", res.Title, res.OverallScore, res.Level)
			for _, d := range res.Dimensions {
				current.printf("  %-16s %6.1f  %s\n", d.Name, d.Score, model.RadarColor(d.Score))
			}
			for _, r := range res.Recommendations {
				current.printf("  - %s\n", r)
			}
			return nil
		},
	}

	compare := &cobra.Command{
		Use:   "compare <first-id> <second-id>",
		Short: "Compare two assessments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := check(services.Wrap(current.assessments.Compare(cmd.Context(), args[0], args[1])))
			if err != nil {
				return err
			}
			printComparison(cmp)
			return nil
		},
	}

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Compare the two most recent completed assessments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmp, err := check(services.Wrap(current.assessments.LatestComparison(cmd.Context())))
			if err != nil {
				return err
			}
			printComparison(cmp)
			return nil
		},
	}

	var title, template string
	create := &cobra.Command{
		Use:   "create",
		Short: "Start a new assessment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := check(services.Wrap(current.assessments.Create(cmd.Context(),
				model.CreateAssessmentRequest{Title: title, Template: template})))
			if err != nil {
				return err
			}
			current.printf("Created %s (%s)\n", a.ID, a.Status)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "assessment title")
	create.Flags().StringVar(&template, "template", "", "question template")

	cmd.AddCommand(list, result, compare, latest, create)
	return cmd
}

func printComparison(cmp model.Comparison) {
	current.printf("%s -> %s: %+.2f overall\n", cmp.First.Title, cmp.Second.Title, cmp.OverallDelta())
	for _, row := range cmp.Normalize() {
		current.printf("  %-16s %6.1f %6.1f %+7.2f\n", row.Name, row.First, row.Second, row.Delta)
	}
}
