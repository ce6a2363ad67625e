package Controllers

import (
	"strconv"

	"Crane/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuoteController handles quote-related API endpoints
type QuoteController struct {
	DB *gorm.DB
}

func NewQuoteController(db *gorm.DB) *QuoteController {
	return &QuoteController{DB: db}
}

// GetProjectQuotes lists quotes for a project.
func (c *QuoteController) GetProjectQuotes(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var quotes []Models.Quote
	result := c.DB.Preload("LineItems").Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&quotes)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotes"})
	}
	return ctx.JSON(quotes)
}

// GetQuote retrieves a single quote with line items.
func (c *QuoteController) GetQuote(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quote ID"})
	}

	var quote Models.Quote
	if result := c.DB.Preload("LineItems").First(&quote, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quote not found"})
	}
	return ctx.JSON(quote)
}

// CreateQuote creates a quote with its line items and computes totals.
func (c *QuoteController) CreateQuote(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.Quote
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Title == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	quote := Models.Quote{
		ProjectID: uint(projectID),
		Title:     input.Title,
		TaxRate:   input.TaxRate,
		Notes:     input.Notes,
		LineItems: input.LineItems,
	}
	quote.Recalculate()

	if result := c.DB.Create(&quote); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quote"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(quote)
}

// UpdateQuote replaces quote fields and line items. Accepted and declined
// quotes are frozen.
func (c *QuoteController) UpdateQuote(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quote ID"})
	}

	var quote Models.Quote
	if result := c.DB.Preload("LineItems").First(&quote, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quote not found"})
	}
	if quote.Status == "accepted" || quote.Status == "declined" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Quote is finalized and cannot be edited"})
	}

	var input Models.Quote
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if input.LineItems != nil {
			if err := tx.Where("quote_id = ?", quote.ID).Delete(&Models.QuoteLineItem{}).Error; err != nil {
				return err
			}
			quote.LineItems = input.LineItems
			for i := range quote.LineItems {
				quote.LineItems[i].ID = 0
				quote.LineItems[i].QuoteID = quote.ID
			}
		}
		if input.Title != "" {
			quote.Title = input.Title
		}
		if input.Status != "" {
			quote.Status = input.Status
		}
		if input.TaxRate != 0 {
			quote.TaxRate = input.TaxRate
		}
		quote.Notes = input.Notes
		quote.Recalculate()
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&quote).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quote"})
	}

	return ctx.JSON(quote)
}

// AcceptQuote marks the quote accepted and creates a draft invoice with
// the same line items.
func (c *QuoteController) AcceptQuote(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quote ID"})
	}

	var quote Models.Quote
	if result := c.DB.Preload("LineItems").First(&quote, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quote not found"})
	}
	if quote.Status == "accepted" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Quote already accepted"})
	}

	var invoice Models.Invoice
	err = c.DB.Transaction(func(tx *gorm.DB) error {
		number, err := Models.NextInvoiceNumber(tx)
		if err != nil {
			return err
		}

		invoice = Models.Invoice{
			ProjectID: quote.ProjectID,
			Number:    number,
			TaxRate:   quote.TaxRate,
			Notes:     quote.Notes,
		}
		for _, item := range quote.LineItems {
			invoice.LineItems = append(invoice.LineItems, Models.InvoiceLineItem{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}
		invoice.Recalculate()

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return tx.Model(&quote).Updates(map[string]interface{}{
			"status":     "accepted",
			"invoice_id": invoice.ID,
		}).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to accept quote"})
	}

	return ctx.JSON(fiber.Map{"quote": quote, "invoice": invoice})
}

// DeleteQuote soft deletes a quote; line items cascade.
func (c *QuoteController) DeleteQuote(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quote ID"})
	}

	var quote Models.Quote
	if result := c.DB.First(&quote, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quote not found"})
	}

	c.DB.Delete(&quote)
	return ctx.JSON(fiber.Map{"message": "Quote deleted successfully"})
}
