package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

type CheckoutRequest struct {
	ReservationID int64
	// Amount in whole currency units; converted to minor units for Stripe.
	Amount        int
	Currency      string
	Description   string
	CustomerEmail string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type CheckoutProvider interface {
	Enabled() bool
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type StripeService struct {
	cfg    StripeConfig
	client session.Client
}

func NewStripeService(cfg StripeConfig) *StripeService {
	return &StripeService{
		cfg:    cfg,
		client: session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey},
	}
}

func (s *StripeService) Enabled() bool {
	return s.cfg.SecretKey != ""
}

// CreateCheckoutSession opens a one-item card checkout. The reservation id
// travels as client_reference_id and metadata so the webhook can match it.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY: %w", ErrNotConfigured)
	}

	ref := fmt.Sprintf("%d", req.ReservationID)
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(int64(req.Amount) * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(ref),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("reservation_id", ref)

	sess, err := s.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session for reservation %d: %w", req.ReservationID, err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (s *StripeService) ParseWebhook(payload []byte, signature string) (stripe.Event, error) {
	if s.cfg.WebhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("STRIPE_WEBHOOK_SECRET: %w", ErrNotConfigured)
	}
	return webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
}
