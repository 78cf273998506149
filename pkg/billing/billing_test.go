package billing_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/opst/orcaobra/pkg/billing"
)

const webhookSecret = "whsec_test"

func sign(payload string, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhook(t *testing.T) {
	testee := billing.New(billing.Config{SecretKey: "sk_test", WebhookSecret: webhookSecret})

	type then struct {
		event billing.Event
		err   error
	}
	for name, testcase := range map[string]struct {
		payload   string
		signature func(payload string) string
		then      then
	}{
		"checkout completed": {
			payload: `{"id": "evt_1", "object": "event", "type": "checkout.session.completed",
				"data": {"object": {"id": "cs_1", "object": "checkout.session", "mode": "subscription",
					"client_reference_id": "user-1", "customer": "cus_1"}}}`,
			signature: func(p string) string { return sign(p, webhookSecret, time.Now()) },
			then: then{event: billing.Event{
				ID: "evt_1", Kind: billing.Subscribed, UserID: "user-1", CustomerID: "cus_1",
			}},
		},
		"subscription deleted": {
			payload: `{"id": "evt_2", "object": "event", "type": "customer.subscription.deleted",
				"data": {"object": {"id": "sub_1", "object": "subscription", "customer": "cus_1"}}}`,
			signature: func(p string) string { return sign(p, webhookSecret, time.Now()) },
			then: then{event: billing.Event{
				ID: "evt_2", Kind: billing.Unsubscribed, CustomerID: "cus_1",
			}},
		},
		"other events are ignored": {
			payload: `{"id": "evt_3", "object": "event", "type": "invoice.paid",
				"data": {"object": {"id": "in_1", "object": "invoice"}}}`,
			signature: func(p string) string { return sign(p, webhookSecret, time.Now()) },
			then:      then{event: billing.Event{ID: "evt_3", Kind: billing.Ignored}},
		},
		"wrong secret": {
			payload:   `{"id": "evt_4", "object": "event", "type": "invoice.paid", "data": {"object": {}}}`,
			signature: func(p string) string { return sign(p, "whsec_other", time.Now()) },
			then:      then{err: billing.ErrInvalidSignature},
		},
		"too old": {
			payload:   `{"id": "evt_5", "object": "event", "type": "invoice.paid", "data": {"object": {}}}`,
			signature: func(p string) string { return sign(p, webhookSecret, time.Now().Add(-time.Hour)) },
			then:      then{err: billing.ErrInvalidSignature},
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := testee.ParseWebhook([]byte(testcase.payload), testcase.signature(testcase.payload))
			if testcase.then.err != nil {
				if !errors.Is(err, testcase.then.err) {
					t.Errorf("error: expected %v, got %v", testcase.then.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if *got != testcase.then.event {
				t.Errorf("event:\n===actual===\n%+v\n===expected===\n%+v", *got, testcase.then.event)
			}
		})
	}
}

func TestCheckout(t *testing.T) {
	t.Run("it creates a subscription checkout session", func(t *testing.T) {
		var form url.Values
		var path, auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			auth = r.Header.Get("Authorization")
			if err := r.ParseForm(); err != nil {
				t.Errorf("form: %s", err)
			}
			form = r.PostForm
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": "cs_1", "object": "checkout.session", "url": "https://checkout.stripe.com/c/pay/cs_1"}`))
		}))
		defer srv.Close()

		testee := billing.New(billing.Config{
			SecretKey:  "sk_test",
			PriceID:    "price_pro",
			SuccessURL: "https://orcaobra.example.com/conta?ok=1",
			CancelURL:  "https://orcaobra.example.com/conta",
			URL:        srv.URL,
			HTTPClient: srv.Client(),
		})
		got, err := testee.Checkout(context.Background(), "user-1", "maria@example.com")
		if err != nil {
			t.Fatal(err)
		}
		if got != "https://checkout.stripe.com/c/pay/cs_1" {
			t.Errorf("url: %s", got)
		}
		if path != "/v1/checkout/sessions" {
			t.Errorf("path: %s", path)
		}
		if auth != "Bearer sk_test" {
			t.Errorf("authorization: %s", auth)
		}
		for key, want := range map[string]string{
			"mode":                    "subscription",
			"line_items[0][price]":    "price_pro",
			"line_items[0][quantity]": "1",
			"client_reference_id":     "user-1",
			"customer_email":          "maria@example.com",
			"success_url":             "https://orcaobra.example.com/conta?ok=1",
			"cancel_url":              "https://orcaobra.example.com/conta",
		} {
			if got := form.Get(key); got != want {
				t.Errorf("form %s: expected %q, got %q", key, want, got)
			}
		}
	})

	t.Run("it requires configuration", func(t *testing.T) {
		_, err := billing.New(billing.Config{}).Checkout(context.Background(), "user-1", "")
		if !errors.Is(err, billing.ErrNotConfigured) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
