package Controllers

import (
	"io"
	"log"
	"strconv"

	"Crane/Models"
	"Crane/OCR"
	"Crane/Storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReceiptController handles OCR receipt scanning and expenses
type ReceiptController struct {
	DB  *gorm.DB
	OCR *OCR.Client
}

func NewReceiptController(db *gorm.DB) *ReceiptController {
	return &ReceiptController{DB: db, OCR: OCR.NewClient()}
}

// ScanReceipt uploads a receipt image, runs it through OCR and books an
// expense against the project. Low-confidence scans land in needs_review.
func (c *ReceiptController) ScanReceipt(ctx *fiber.Ctx) error {
	if !c.OCR.Enabled() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Receipt scanning is not configured"})
	}

	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}

	scan, err := c.OCR.ScanReceipt(fileHeader.Filename, data)
	if err != nil {
		log.Printf("Receipt scan failed: %v", err)
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Receipt scanning failed"})
	}

	expense := Models.Expense{
		ProjectID:  uint(projectID),
		Merchant:   scan.Merchant,
		Amount:     scan.Total,
		TaxAmount:  scan.TaxAmount,
		Date:       scan.Date,
		Category:   ctx.FormValue("category", "materials"),
		Confidence: scan.Confidence,
	}
	if scan.NeedsReview {
		expense.Status = "needs_review"
	}

	// Keep the receipt image when storage is available.
	if store := Storage.Get(); store != nil {
		key := Storage.ObjectKey(uint(projectID), fileHeader.Filename)
		if err := store.Upload(ctx.Context(), key, data, fileHeader.Header.Get("Content-Type")); err == nil {
			expense.ReceiptKey = key
		} else {
			log.Printf("Failed to store receipt image: %v", err)
		}
	}

	if result := c.DB.Create(&expense); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save expense"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(expense)
}

// GetProjectExpenses lists expenses for a project.
func (c *ReceiptController) GetProjectExpenses(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := c.DB.Where("project_id = ?", projectID)
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var expenses []Models.Expense
	if result := query.Order("date DESC").Find(&expenses); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve expenses"})
	}
	return ctx.JSON(expenses)
}

// ConfirmExpense applies corrected fields and clears needs_review.
func (c *ReceiptController) ConfirmExpense(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	var expense Models.Expense
	if result := c.DB.First(&expense, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
	}

	var input Models.Expense
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{"status": "confirmed"}
	if input.Merchant != "" {
		updates["merchant"] = input.Merchant
	}
	if input.Amount != 0 {
		updates["amount"] = input.Amount
	}
	if input.TaxAmount != 0 {
		updates["tax_amount"] = input.TaxAmount
	}
	if input.Date != "" {
		updates["date"] = input.Date
	}
	if input.Category != "" {
		updates["category"] = input.Category
	}
	if input.Notes != "" {
		updates["notes"] = input.Notes
	}

	c.DB.Model(&expense).Updates(updates)
	return ctx.JSON(expense)
}

// DeleteExpense removes an expense.
func (c *ReceiptController) DeleteExpense(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense ID"})
	}

	var expense Models.Expense
	if result := c.DB.First(&expense, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
	}

	c.DB.Delete(&expense)
	return ctx.JSON(fiber.Map{"message": "Expense deleted successfully"})
}
