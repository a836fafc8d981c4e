package model

import "github.com/shopspring/decimal"

// Plan is a purchasable subscription tier.
type Plan struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Interval string          `json:"interval"`
	Features []string        `json:"features,omitempty"`
}

// CheckoutRequest is the body of POST /billing/checkout.
type CheckoutRequest struct {
	PlanID     string `json:"plan_id"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// CheckoutSession points the user at the hosted payment page.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Subscription is the organisation's current billing state.
type Subscription struct {
	PlanID           string          `json:"plan_id"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	CurrentPeriodEnd string          `json:"current_period_end,omitempty"`
	CancelAtEnd      bool            `json:"cancel_at_period_end"`
}
