package mocks

import (
	"context"
	"testing"

	"github.com/opst/orcaobra/pkg/billing"
)

type Billing struct {
	t    *testing.T
	Impl struct {
		Checkout     func(ctx context.Context, userID, email string) (string, error)
		ParseWebhook func(payload []byte, signature string) (*billing.Event, error)
	}
	Calls struct {
		Checkout     []struct{ UserID, Email string }
		ParseWebhook []struct {
			Payload   []byte
			Signature string
		}
	}
}

func New(t *testing.T) *Billing {
	return &Billing{t: t}
}

var _ billing.Billing = &Billing{}

func (m *Billing) Checkout(ctx context.Context, userID, email string) (string, error) {
	m.t.Helper()
	m.Calls.Checkout = append(m.Calls.Checkout, struct{ UserID, Email string }{userID, email})
	if m.Impl.Checkout == nil {
		m.t.Fatal("Billing.Checkout: not implemented")
	}
	return m.Impl.Checkout(ctx, userID, email)
}

func (m *Billing) ParseWebhook(payload []byte, signature string) (*billing.Event, error) {
	m.t.Helper()
	m.Calls.ParseWebhook = append(m.Calls.ParseWebhook, struct {
		Payload   []byte
		Signature string
	}{payload, signature})
	if m.Impl.ParseWebhook == nil {
		m.t.Fatal("Billing.ParseWebhook: not implemented")
	}
	return m.Impl.ParseWebhook(payload, signature)
}
