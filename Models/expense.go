package Models

import (
	"gorm.io/gorm"
)

// Expense is a cost booked against a project, usually created from a
// scanned receipt. Status is needs_review until someone confirms the
// OCR extraction.
type Expense struct {
	gorm.Model
	ProjectID  uint    `json:"project_id" gorm:"not null;index"`
	Merchant   string  `json:"merchant"`
	Amount     float64 `json:"amount"`
	TaxAmount  float64 `json:"tax_amount"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Category   string  `json:"category" gorm:"default:materials"`
	Status     string  `json:"status" gorm:"default:confirmed"` // confirmed, needs_review
	ReceiptKey string  `json:"receipt_key"`                     // R2 object key of the receipt image
	Confidence float64 `json:"confidence"`                      // OCR confidence 0..1
	Notes      string  `json:"notes"`
}
