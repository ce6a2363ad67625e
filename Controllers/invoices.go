package Controllers

import (
	"fmt"
	"strconv"

	"Crane/Models"
	"Crane/Reports"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InvoiceController handles invoice-related API endpoints
type InvoiceController struct {
	DB *gorm.DB
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db}
}

// GetProjectInvoices lists invoices for a project.
func (c *InvoiceController) GetProjectInvoices(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := c.DB.Preload("LineItems").Preload("Payments").Where("project_id = ?", projectID)
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []Models.Invoice
	if result := query.Order("number").Find(&invoices); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve invoices"})
	}
	return ctx.JSON(invoices)
}

// GetInvoice retrieves a single invoice with line items and payments.
func (c *InvoiceController) GetInvoice(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var invoice Models.Invoice
	result := c.DB.Preload("LineItems").Preload("Payments").First(&invoice, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}
	return ctx.JSON(invoice)
}

// CreateInvoice creates a draft invoice with the next number in sequence.
func (c *InvoiceController) CreateInvoice(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.Invoice
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var invoice Models.Invoice
	err = c.DB.Transaction(func(tx *gorm.DB) error {
		number, err := Models.NextInvoiceNumber(tx)
		if err != nil {
			return err
		}
		invoice = Models.Invoice{
			ProjectID: uint(projectID),
			Number:    number,
			TaxRate:   input.TaxRate,
			DueDate:   input.DueDate,
			Notes:     input.Notes,
			LineItems: input.LineItems,
		}
		invoice.Recalculate()
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invoice"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(invoice)
}

// UpdateInvoice edits a draft invoice. Anything past draft is immutable
// except status transitions handled elsewhere.
func (c *InvoiceController) UpdateInvoice(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var invoice Models.Invoice
	if result := c.DB.Preload("LineItems").First(&invoice, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}
	if invoice.Status != "draft" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only draft invoices can be edited"})
	}

	var input Models.Invoice
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if input.LineItems != nil {
			if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&Models.InvoiceLineItem{}).Error; err != nil {
				return err
			}
			invoice.LineItems = input.LineItems
			for i := range invoice.LineItems {
				invoice.LineItems[i].ID = 0
				invoice.LineItems[i].InvoiceID = invoice.ID
			}
		}
		if input.TaxRate != 0 {
			invoice.TaxRate = input.TaxRate
		}
		if input.DueDate != "" {
			invoice.DueDate = input.DueDate
		}
		invoice.Notes = input.Notes
		invoice.Recalculate()
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&invoice).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update invoice"})
	}

	return ctx.JSON(invoice)
}

// SendInvoice moves a draft invoice to sent.
func (c *InvoiceController) SendInvoice(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var invoice Models.Invoice
	if result := c.DB.First(&invoice, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}
	if invoice.Status != "draft" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only draft invoices can be sent"})
	}

	c.DB.Model(&invoice).Update("status", "sent")
	return ctx.JSON(invoice)
}

// VoidInvoice cancels an unpaid invoice.
func (c *InvoiceController) VoidInvoice(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var invoice Models.Invoice
	if result := c.DB.First(&invoice, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}
	if invoice.Status == "paid" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Paid invoices cannot be voided"})
	}

	c.DB.Model(&invoice).Update("status", "void")
	return ctx.JSON(invoice)
}

// ExportInvoices streams the project's invoice register as xlsx.
func (c *InvoiceController) ExportInvoices(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	buf, err := Reports.InvoiceRegister(c.DB, uint(projectID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoices-project-%d.xlsx"`, projectID))
	return ctx.Send(buf.Bytes())
}
