package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/arwindpianist/showcase/internal/entity"
)

const testWebhookSecret = "whsec_test"

func newTestStripe(t *testing.T, handler http.HandlerFunc) *Stripe {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(server.URL),
		HTTPClient:        server.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripe(StripeConfig{SecretKey: "sk_test_123", WebhookSecret: testWebhookSecret}, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
}

func TestStripeCreateCheckoutSession(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "price_123", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "github_access", r.PostForm.Get("metadata[product_type]"))
		assert.Equal(t, "https://example.com/payment-success?session_id={CHECKOUT_SESSION_ID}", r.PostForm.Get("success_url"))
		assert.Equal(t, "https://example.com/projects", r.PostForm.Get("cancel_url"))

		json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_test_1",
			"object":         "checkout.session",
			"url":            "https://checkout.stripe.com/c/pay/cs_test_1",
			"payment_status": "unpaid",
			"metadata":       map[string]string{"product_type": "github_access"},
		})
	})

	sess, err := s.CreateCheckoutSession(context.Background(), CheckoutRequest{
		PriceID:     "price_123",
		ProductType: entity.ProductTypeGitHubAccess,
		SuccessURL:  "https://example.com/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   "https://example.com/projects",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)
	assert.False(t, sess.IsPaid())

	_, err = s.CreateCheckoutSession(context.Background(), CheckoutRequest{})
	assert.ErrorIs(t, err, entity.ErrInvalid)
}

func TestStripeGetSession(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_paid":
			json.NewEncoder(w).Encode(map[string]any{
				"id": "cs_paid", "object": "checkout.session", "payment_status": "paid",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "invalid_request_error", "message": "No such checkout.session"},
			})
		}
	})

	sess, err := s.GetSession(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.True(t, sess.IsPaid())

	_, err = s.GetSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = s.GetSession(context.Background(), " ")
	assert.ErrorIs(t, err, entity.ErrInvalid)
}

func TestStripeNotConfigured(t *testing.T) {
	s := NewStripe(StripeConfig{}, nil)
	_, err := s.CreateCheckoutSession(context.Background(), CheckoutRequest{PriceID: "price_1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = s.GetSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = s.ParseWebhook([]byte(`{}`), "t=1,v1=abc")
	assert.ErrorIs(t, err, entity.ErrSignature)
}

func signedEvent(t *testing.T, secret string, event map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func completedEvent(id, status string) map[string]any {
	return map[string]any{
		"id":          id,
		"object":      "event",
		"type":        "checkout.session.completed",
		"api_version": "2019-01-01",
		"data": map[string]any{"object": map[string]any{
			"id":             "cs_" + id,
			"object":         "checkout.session",
			"payment_status": status,
			"metadata":       map[string]string{"product_type": "github_access"},
		}},
	}
}

func TestStripeParseWebhook(t *testing.T) {
	s := NewStripe(StripeConfig{SecretKey: "sk_test", WebhookSecret: testWebhookSecret}, nil)

	payload, header := signedEvent(t, testWebhookSecret, completedEvent("evt_1", "paid"))
	ev, err := s.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, ProviderStripe, ev.Provider)
	assert.Equal(t, "evt_1", ev.EventID)
	assert.Equal(t, "cs_evt_1", ev.SessionID)
	assert.True(t, ev.GrantsAccess())

	payload, header = signedEvent(t, testWebhookSecret, completedEvent("evt_2", "unpaid"))
	ev, err = s.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.False(t, ev.GrantsAccess())

	payload, header = signedEvent(t, testWebhookSecret, map[string]any{
		"id": "evt_3", "object": "event", "type": "customer.created", "data": map[string]any{"object": map[string]any{}},
	})
	ev, err = s.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "customer.created", ev.EventType)
	assert.Empty(t, ev.SessionID)
}

func TestStripeParseWebhookRejectsBadSignature(t *testing.T) {
	s := NewStripe(StripeConfig{WebhookSecret: testWebhookSecret}, nil)

	payload, header := signedEvent(t, "whsec_other", completedEvent("evt_1", "paid"))
	_, err := s.ParseWebhook(payload, header)
	assert.ErrorIs(t, err, entity.ErrSignature)

	payload, header = signedEvent(t, testWebhookSecret, completedEvent("evt_1", "paid"))
	_, err = s.ParseWebhook(append(payload, ' '), header)
	assert.ErrorIs(t, err, entity.ErrSignature)

	_, err = s.ParseWebhook(payload, "")
	assert.ErrorIs(t, err, entity.ErrSignature)
}
