package Models

import (
	"gorm.io/gorm"
)

type Quote struct {
	gorm.Model
	ProjectID uint    `json:"project_id" gorm:"not null;index"`
	Title     string  `json:"title" gorm:"not null"`
	Status    string  `json:"status" gorm:"default:draft"` // draft, sent, accepted, declined
	TaxRate   float64 `json:"tax_rate"`                    // e.g. 0.14
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
	Notes     string  `json:"notes"`

	// Set when the accepted quote was converted to an invoice
	InvoiceID *uint `json:"invoice_id"`

	LineItems []QuoteLineItem `json:"line_items" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

type QuoteLineItem struct {
	gorm.Model
	QuoteID     uint    `json:"quote_id" gorm:"not null;index"`
	Description string  `json:"description" gorm:"not null"`
	Quantity    float64 `json:"quantity" gorm:"default:1"`
	UnitPrice   float64 `json:"unit_price"`
}

// Recalculate derives subtotal, tax and total from the line items.
func (q *Quote) Recalculate() {
	var subtotal float64
	for _, item := range q.LineItems {
		subtotal += item.Quantity * item.UnitPrice
	}
	q.Subtotal = subtotal
	q.TaxAmount = subtotal * q.TaxRate
	q.Total = subtotal + q.TaxAmount
}
