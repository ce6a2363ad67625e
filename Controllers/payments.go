package Controllers

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"Crane/Config"
	"Crane/Models"
	"Crane/Stripe"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentController handles manual payments, Stripe checkout and webhooks
type PaymentController struct {
	DB     *gorm.DB
	Stripe *Stripe.Client
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Stripe: Stripe.NewClient()}
}

type RecordPaymentInput struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
	Date      string  `json:"date"`
}

// RecordPayment books a manual payment (check, transfer, cash) against an
// invoice and settles it when the balance reaches zero.
func (c *PaymentController) RecordPayment(ctx *fiber.Ctx) error {
	invoiceID, err := strconv.Atoi(ctx.Params("invoice_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var invoice Models.Invoice
	if result := c.DB.Preload("Payments").First(&invoice, invoiceID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}
	if invoice.Status == "void" || invoice.Status == "draft" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invoice is not payable"})
	}

	var input RecordPaymentInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Amount <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be positive"})
	}
	if input.Date == "" {
		input.Date = time.Now().Format("2006-01-02")
	}
	if input.Method == "" {
		input.Method = "manual"
	}

	payment := Models.Payment{
		InvoiceID: invoice.ID,
		Amount:    input.Amount,
		Method:    input.Method,
		Reference: input.Reference,
		Date:      input.Date,
	}
	if result := c.DB.Create(&payment); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	invoice.Payments = append(invoice.Payments, payment)
	c.settleIfPaid(&invoice)

	return ctx.Status(fiber.StatusCreated).JSON(payment)
}

type CheckoutInput struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CreateCheckout opens a Stripe Checkout session for the invoice balance.
func (c *PaymentController) CreateCheckout(ctx *fiber.Ctx) error {
	if !c.Stripe.Enabled() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Stripe is not configured"})
	}

	invoiceID, err := strconv.Atoi(ctx.Params("invoice_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var invoice Models.Invoice
	if result := c.DB.Preload("Payments").First(&invoice, invoiceID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}
	if invoice.Status != "sent" && invoice.Status != "overdue" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invoice is not payable"})
	}

	balance := invoice.Balance()
	if balance <= 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invoice has no outstanding balance"})
	}

	var input CheckoutInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := c.Stripe.CreateCheckoutSession(
		invoice.ID, invoice.Number, int64(balance*100), input.SuccessURL, input.CancelURL)
	if err != nil {
		log.Printf("Stripe checkout failed for invoice %d: %v", invoice.ID, err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	c.DB.Model(&invoice).Update("stripe_checkout_id", session.ID)
	return ctx.JSON(fiber.Map{"checkout_url": session.URL, "session_id": session.ID})
}

// StripeWebhook verifies the signature and books payments from completed
// checkout sessions. Stripe retries on non-2xx, so unknown event types
// still return 200.
func (c *PaymentController) StripeWebhook(ctx *fiber.Ctx) error {
	payload := ctx.Body()
	signature := ctx.Get("Stripe-Signature")

	event, err := Stripe.ConstructEvent(payload, signature, Config.AppConfig.StripeWebhookSecret)
	if err != nil {
		log.Printf("Stripe webhook rejected: %v", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	if event.Type != "checkout.session.completed" {
		return ctx.JSON(fiber.Map{"received": true})
	}

	var session struct {
		ID            string `json:"id"`
		AmountTotal   int64  `json:"amount_total"`
		PaymentIntent string `json:"payment_intent"`
		Metadata      struct {
			InvoiceID string `json:"invoice_id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		log.Printf("Stripe webhook decode failed: %v", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed event"})
	}

	invoiceID, err := strconv.Atoi(session.Metadata.InvoiceID)
	if err != nil {
		log.Printf("Stripe webhook missing invoice_id metadata on session %s", session.ID)
		return ctx.JSON(fiber.Map{"received": true})
	}

	var invoice Models.Invoice
	if result := c.DB.Preload("Payments").First(&invoice, invoiceID); result.Error != nil {
		log.Printf("Stripe webhook for unknown invoice %d", invoiceID)
		return ctx.JSON(fiber.Map{"received": true})
	}

	// Retries of the same event must not double-book the payment.
	for _, p := range invoice.Payments {
		if p.Reference == session.PaymentIntent {
			return ctx.JSON(fiber.Map{"received": true})
		}
	}

	payment := Models.Payment{
		InvoiceID: invoice.ID,
		Amount:    float64(session.AmountTotal) / 100,
		Method:    "stripe",
		Reference: session.PaymentIntent,
		Date:      time.Now().Format("2006-01-02"),
	}
	if result := c.DB.Create(&payment); result.Error != nil {
		log.Printf("Failed to record stripe payment for invoice %d: %v", invoice.ID, result.Error)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	invoice.Payments = append(invoice.Payments, payment)
	c.settleIfPaid(&invoice)

	return ctx.JSON(fiber.Map{"received": true})
}

// settleIfPaid marks the invoice paid once its balance is covered.
func (c *PaymentController) settleIfPaid(invoice *Models.Invoice) {
	if invoice.Balance() > 0 {
		return
	}
	now := time.Now()
	c.DB.Model(invoice).Updates(map[string]interface{}{
		"status":  "paid",
		"paid_at": &now,
	})
}
