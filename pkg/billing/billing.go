// Package billing sells pro plan subscriptions with Stripe.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	// ErrInvalidSignature is returned when a webhook payload is not signed
	// by Stripe.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrNotConfigured is returned when billing is used without credentials.
	ErrNotConfigured = errors.New("billing is not configured")
)

type EventKind string

const (
	// Subscribed is notified when a checkout completes.
	Subscribed EventKind = "subscribed"

	// Unsubscribed is notified when a subscription ends.
	Unsubscribed EventKind = "unsubscribed"

	// Ignored is any other event.
	Ignored EventKind = "ignored"
)

// Event is a webhook notification, reduced to what plans care.
type Event struct {
	ID   string
	Kind EventKind

	// UserID is the user who has checked out. Set for Subscribed.
	UserID string

	CustomerID string
}

// Billing is the payment provider.
type Billing interface {
	// Checkout starts a subscription and returns the URL of its payment page.
	Checkout(ctx context.Context, userID, email string) (string, error)

	// ParseWebhook verifies and reads a webhook payload.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type Config struct {
	SecretKey     string
	WebhookSecret string

	// PriceID is the recurring price of the pro plan.
	PriceID    string
	SuccessURL string
	CancelURL  string

	// URL overrides the endpoint of Stripe API.
	URL        string
	HTTPClient *http.Client
}

type stripeBilling struct {
	api    *client.API
	config Config
}

// New returns a Billing backed by Stripe.
func New(cfg Config) Billing {
	sc := &client.API{}
	if cfg.URL == "" && cfg.HTTPClient == nil {
		sc.Init(cfg.SecretKey, nil)
	} else {
		bc := &stripe.BackendConfig{HTTPClient: cfg.HTTPClient}
		if cfg.URL != "" {
			bc.URL = stripe.String(cfg.URL)
		}
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)
		sc.Init(cfg.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	}
	return &stripeBilling{api: sc, config: cfg}
}

func (s *stripeBilling) Checkout(ctx context.Context, userID, email string) (string, error) {
	if s.config.SecretKey == "" || s.config.PriceID == "" {
		return "", ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.config.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.config.SuccessURL),
		CancelURL:         stripe.String(s.config.CancelURL),
		ClientReferenceID: stripe.String(userID),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: checkout: %w", err)
	}
	return sess.URL, nil
}

func (s *stripeBilling) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if s.config.WebhookSecret == "" {
		return nil, ErrNotConfigured
	}
	ev, err := webhook.ConstructEventWithOptions(
		payload, signature, s.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}

	ret := &Event{ID: ev.ID, Kind: Ignored}
	switch ev.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		sess := stripe.CheckoutSession{}
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: checkout session: %w", err)
		}
		if sess.Mode != "" && sess.Mode != stripe.CheckoutSessionModeSubscription {
			return ret, nil
		}
		ret.Kind = Subscribed
		ret.UserID = sess.ClientReferenceID
		if sess.Customer != nil {
			ret.CustomerID = sess.Customer.ID
		}
	case stripe.EventTypeCustomerSubscriptionDeleted:
		sub := stripe.Subscription{}
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("stripe: subscription: %w", err)
		}
		ret.Kind = Unsubscribed
		if sub.Customer != nil {
			ret.CustomerID = sub.Customer.ID
		}
	}
	return ret, nil
}
