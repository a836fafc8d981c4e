package services

import (
	"context"

	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// Billing wraps the /billing endpoints. Amounts stay decimal end to end.
type Billing struct {
	api API
}

func NewBilling(api API) *Billing { return &Billing{api: api} }

func (s *Billing) Plans(ctx context.Context) ([]model.Plan, error) {
	return decode[[]model.Plan](s.api.Get(ctx, "/billing/plans", nil))
}

// Checkout opens a hosted payment session for planID.
func (s *Billing) Checkout(ctx context.Context, req model.CheckoutRequest) (model.CheckoutSession, error) {
	return decode[model.CheckoutSession](s.api.Post(ctx, "/billing/checkout", req, nil))
}

func (s *Billing) Subscription(ctx context.Context) (model.Subscription, error) {
	return decode[model.Subscription](s.api.Get(ctx, "/billing/subscription", nil))
}

// Cancel schedules cancellation at the end of the current period.
func (s *Billing) Cancel(ctx context.Context) (model.Subscription, error) {
	return decode[model.Subscription](s.api.Post(ctx, "/billing/cancel", nil, nil))
}
