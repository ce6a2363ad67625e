package Controllers

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"Crane/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptQuoteCreatesDraftInvoice(t *testing.T) {
	db := setupTestDB(t)
	controller := NewQuoteController(db)

	app := fiber.New()
	app.Post("/quotes/:id/accept", controller.AcceptQuote)

	project := Models.Project{Name: "Lakeside remodel"}
	require.NoError(t, db.Create(&project).Error)

	quote := Models.Quote{
		ProjectID: project.ID,
		Title:     "Kitchen remodel",
		Status:    "sent",
		TaxRate:   0.1,
		LineItems: []Models.QuoteLineItem{
			{Description: "Cabinets", Quantity: 1, UnitPrice: 8000},
			{Description: "Countertops", Quantity: 1, UnitPrice: 3000},
		},
	}
	quote.Recalculate()
	require.NoError(t, db.Create(&quote).Error)

	req := httptest.NewRequest("POST", fmt.Sprintf("/quotes/%d/accept", quote.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var gotQuote Models.Quote
	require.NoError(t, db.First(&gotQuote, quote.ID).Error)
	assert.Equal(t, "accepted", gotQuote.Status)
	require.NotNil(t, gotQuote.InvoiceID)

	var invoice Models.Invoice
	require.NoError(t, db.Preload("LineItems").First(&invoice, *gotQuote.InvoiceID).Error)
	assert.Equal(t, "draft", invoice.Status)
	assert.Equal(t, project.ID, invoice.ProjectID)
	assert.Equal(t, fmt.Sprintf("INV-%d-0001", time.Now().Year()), invoice.Number)
	assert.Len(t, invoice.LineItems, 2)
	assert.Equal(t, 11000.0, invoice.Subtotal)
	assert.InDelta(t, 12100.0, invoice.Total, 0.001)

	// Accepting again conflicts
	req = httptest.NewRequest("POST", fmt.Sprintf("/quotes/%d/accept", quote.ID), nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var invoiceCount int64
	db.Model(&Models.Invoice{}).Count(&invoiceCount)
	assert.Equal(t, int64(1), invoiceCount)
}

func TestAcceptQuoteUnknownID(t *testing.T) {
	db := setupTestDB(t)
	controller := NewQuoteController(db)

	app := fiber.New()
	app.Post("/quotes/:id/accept", controller.AcceptQuote)

	req := httptest.NewRequest("POST", "/quotes/999/accept", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
