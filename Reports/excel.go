package Reports

import (
	"bytes"
	"fmt"

	"Crane/Models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// InvoiceRegister builds an xlsx of all invoices for a project, one row
// per invoice with its payment state.
func InvoiceRegister(db *gorm.DB, projectID uint) (*bytes.Buffer, error) {
	var project Models.Project
	if err := db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	var invoices []Models.Invoice
	if err := db.Preload("Payments").Where("project_id = ?", projectID).
		Order("number").Find(&invoices).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Invoices"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Number", "Status", "Issue Date", "Due Date",
		"Subtotal", "Tax", "Total", "Paid", "Balance", "Notes",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, inv := range invoices {
		row := rowIndex + 2
		values := []interface{}{
			inv.Number,
			inv.Status,
			inv.CreatedAt.Format("2006-01-02"),
			inv.DueDate,
			inv.Subtotal,
			inv.TaxAmount,
			inv.Total,
			inv.AmountPaid(),
			inv.Balance(),
			inv.Notes,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := 0; i < len(headers); i++ {
		col := string('A' + rune(i))
		f.SetColWidth(sheetName, col, col, 15)
	}

	if f.GetSheetName(0) != sheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %v", err)
	}
	return &buf, nil
}
