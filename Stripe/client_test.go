package Stripe

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStripeClient(baseURL string) *Client {
	return &Client{
		SecretKey:  "sk_test_123",
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "25000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Invoice INV-2026-0001", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "17", r.PostForm.Get("metadata[invoice_id]"))
		assert.Equal(t, "https://app.example.com/paid", r.PostForm.Get("success_url"))

		w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1","payment_status":"unpaid"}`))
	}))
	defer server.Close()

	session, err := testStripeClient(server.URL).CreateCheckoutSession(
		17, "INV-2026-0001", 25000, "https://app.example.com/paid", "https://app.example.com/cancel")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", session.URL)
}

func TestGetPaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
		w.Write([]byte(`{"id":"pi_123","amount":5000,"currency":"usd","status":"succeeded"}`))
	}))
	defer server.Close()

	intent, err := testStripeClient(server.URL).GetPaymentIntent("pi_123")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), intent.Amount)
	assert.Equal(t, "succeeded", intent.Status)
}

func TestStripeAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","message":"Your card was declined."}}`))
	}))
	defer server.Close()

	_, err := testStripeClient(server.URL).GetPaymentIntent("pi_bad")
	assert.ErrorContains(t, err, "Your card was declined.")
}

func TestClientEnabled(t *testing.T) {
	assert.True(t, testStripeClient("").Enabled())
	assert.False(t, (&Client{}).Enabled())
}
