package Stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Crane/Config"
)

const apiBase = "https://api.stripe.com/v1"

// Client talks to the Stripe REST API directly. Requests are form encoded
// per Stripe's API convention.
type Client struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		SecretKey:  Config.AppConfig.StripeSecretKey,
		BaseURL:    apiBase,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a secret key is configured.
func (c *Client) Enabled() bool { return c.SecretKey != "" }

// CheckoutSession is the subset of Stripe's checkout session object we use.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
}

// PaymentIntent is the subset of Stripe's payment intent object we use.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession creates a hosted checkout page for an invoice.
// amountCents is the remaining balance; metadata carries the invoice ID so
// the webhook can resolve it.
func (c *Client) CreateCheckoutSession(invoiceID uint, invoiceNumber string, amountCents int64, successURL, cancelURL string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", "Invoice "+invoiceNumber)
	form.Set("metadata[invoice_id]", strconv.FormatUint(uint64(invoiceID), 10))
	form.Set("payment_intent_data[metadata][invoice_id]", strconv.FormatUint(uint64(invoiceID), 10))

	var session CheckoutSession
	if err := c.post("/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetPaymentIntent fetches a payment intent by ID.
func (c *Client) GetPaymentIntent(id string) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.request("GET", "/payment_intents/"+id, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) post(path string, form url.Values, out interface{}) error {
	return c.request("POST", path, form, out)
}

func (c *Client) request(method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe error: status %d", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
