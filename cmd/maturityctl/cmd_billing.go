package main

import (
	"github.com/spf13/cobra"

	"github.com/Checker-Finance/maturity-client/internal/services"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

func billingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Plans and subscription",
	}

	plans := &cobra.Command{
		Use:   "plans",
		Short: "List available plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plans, err := check(services.Wrap(current.billing.Plans(cmd.Context())))
			if err != nil {
				return err
			}
			for _, p := range plans {
				current.printf("%-12s %10s %s/%s\n", p.ID, p.Price.StringFixed(2), p.Currency, p.Interval)
			}
			return nil
		},
	}

	checkout := &cobra.Command{
		Use:   "checkout <plan-id>",
		Short: "Open a checkout session for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := check(services.Wrap(current.billing.Checkout(cmd.Context(), model.CheckoutRequest{PlanID: args[0]})))
			if err != nil {
				return err
			}
			current.printf("Complete payment at %s\n", cs.CheckoutURL)
			return nil
		},
	}

	subscription := &cobra.Command{
		Use:   "subscription",
		Short: "Show the current subscription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := check(services.Wrap(current.billing.Subscription(cmd.Context())))
			if err != nil {
				return err
			}
			printSubscription(sub)
			return nil
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel at the end of the billing period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := check(services.Wrap(current.billing.Cancel(cmd.Context())))
			if err != nil {
				return err
			}
			printSubscription(sub)
			return nil
		},
	}

	cmd.AddCommand(plans, checkout, subscription, cancel)
	return cmd
}

func printSubscription(sub model.Subscription) {
	current.printf("%s %s %s %s", sub.PlanID, sub.Status, sub.Amount.StringFixed(2), sub.Currency)
	if sub.CancelAtEnd {
		current.printf(" (cancels %s)", sub.CurrentPeriodEnd)
	}
	current.printf("\n")
}
