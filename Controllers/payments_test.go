package Controllers

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"Crane/Config"
	"Crane/Models"
	"Crane/Stripe"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_test"

func webhookApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	Config.AppConfig.StripeWebhookSecret = webhookSecret

	db := setupTestDB(t)
	controller := NewPaymentController(db)

	app := fiber.New()
	app.Post("/webhooks/stripe", controller.StripeWebhook)
	return app, db
}

func sentInvoice(t *testing.T, db *gorm.DB, total float64) Models.Invoice {
	t.Helper()
	invoice := Models.Invoice{ProjectID: 1, Number: "INV-2026-0001", Status: "sent", Total: total}
	require.NoError(t, db.Create(&invoice).Error)
	return invoice
}

func checkoutCompletedPayload(invoiceID uint, amountCents int64, paymentIntent string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","amount_total":%d,"payment_intent":"%s","metadata":{"invoice_id":"%d"}}}}`,
		amountCents, paymentIntent, invoiceID))
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signature)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestStripeWebhookBooksPaymentAndSettles(t *testing.T) {
	app, db := webhookApp(t)
	invoice := sentInvoice(t, db, 250)

	payload := checkoutCompletedPayload(invoice.ID, 25000, "pi_abc")
	status := postWebhook(t, app, payload, Stripe.SignPayload(payload, webhookSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, status)

	var got Models.Invoice
	require.NoError(t, db.Preload("Payments").First(&got, invoice.ID).Error)
	require.Len(t, got.Payments, 1)
	assert.Equal(t, 250.0, got.Payments[0].Amount)
	assert.Equal(t, "stripe", got.Payments[0].Method)
	assert.Equal(t, "pi_abc", got.Payments[0].Reference)
	assert.Equal(t, "paid", got.Status)
	assert.NotNil(t, got.PaidAt)
}

func TestStripeWebhookPartialPaymentLeavesInvoiceOpen(t *testing.T) {
	app, db := webhookApp(t)
	invoice := sentInvoice(t, db, 1000)

	payload := checkoutCompletedPayload(invoice.ID, 40000, "pi_partial")
	postWebhook(t, app, payload, Stripe.SignPayload(payload, webhookSecret, time.Now()))

	var got Models.Invoice
	require.NoError(t, db.Preload("Payments").First(&got, invoice.ID).Error)
	require.Len(t, got.Payments, 1)
	assert.Equal(t, "sent", got.Status)
	assert.Equal(t, 600.0, got.Balance())
}

func TestStripeWebhookRetryIsIdempotent(t *testing.T) {
	app, db := webhookApp(t)
	invoice := sentInvoice(t, db, 250)

	payload := checkoutCompletedPayload(invoice.ID, 25000, "pi_retry")
	sig := Stripe.SignPayload(payload, webhookSecret, time.Now())

	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, payload, sig))
	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, payload, sig))

	var count int64
	db.Model(&Models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	app, db := webhookApp(t)
	invoice := sentInvoice(t, db, 250)

	payload := checkoutCompletedPayload(invoice.ID, 25000, "pi_bad")
	status := postWebhook(t, app, payload, Stripe.SignPayload(payload, "whsec_wrong", time.Now()))
	assert.Equal(t, fiber.StatusBadRequest, status)

	var count int64
	db.Model(&Models.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestStripeWebhookIgnoresOtherEventTypes(t *testing.T) {
	app, db := webhookApp(t)

	payload := []byte(`{"id":"evt_2","type":"invoice.created","data":{"object":{}}}`)
	status := postWebhook(t, app, payload, Stripe.SignPayload(payload, webhookSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, status)

	var count int64
	db.Model(&Models.Payment{}).Count(&count)
	assert.Zero(t, count)
}

func TestRecordPaymentSettlesInvoice(t *testing.T) {
	db := setupTestDB(t)
	controller := NewPaymentController(db)

	app := fiber.New()
	app.Post("/invoices/:invoice_id/payments", controller.RecordPayment)

	invoice := sentInvoice(t, db, 500)

	body := []byte(`{"amount":500,"method":"check","reference":"1042"}`)
	req := httptest.NewRequest("POST", fmt.Sprintf("/invoices/%d/payments", invoice.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var got Models.Invoice
	require.NoError(t, db.First(&got, invoice.ID).Error)
	assert.Equal(t, "paid", got.Status)
}

func TestRecordPaymentRejectsDraftInvoice(t *testing.T) {
	db := setupTestDB(t)
	controller := NewPaymentController(db)

	app := fiber.New()
	app.Post("/invoices/:invoice_id/payments", controller.RecordPayment)

	invoice := Models.Invoice{ProjectID: 1, Number: "INV-2026-0009", Status: "draft", Total: 100}
	require.NoError(t, db.Create(&invoice).Error)

	body := []byte(`{"amount":100}`)
	req := httptest.NewRequest("POST", fmt.Sprintf("/invoices/%d/payments", invoice.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
