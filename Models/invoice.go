package Models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Invoice struct {
	gorm.Model
	ProjectID uint    `json:"project_id" gorm:"not null;index"`
	Number    string  `json:"number" gorm:"uniqueIndex"`
	Status    string  `json:"status" gorm:"default:draft"` // draft, sent, paid, overdue, void
	TaxRate   float64 `json:"tax_rate"`
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
	DueDate   string  `json:"due_date"` // YYYY-MM-DD
	PaidAt    *time.Time `json:"paid_at"`
	Notes     string  `json:"notes"`

	StripeCheckoutID string `json:"stripe_checkout_id"`

	LineItems []InvoiceLineItem `json:"line_items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments  []Payment         `json:"payments,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

type InvoiceLineItem struct {
	gorm.Model
	InvoiceID   uint    `json:"invoice_id" gorm:"not null;index"`
	Description string  `json:"description" gorm:"not null"`
	Quantity    float64 `json:"quantity" gorm:"default:1"`
	UnitPrice   float64 `json:"unit_price"`
}

type Payment struct {
	gorm.Model
	InvoiceID uint    `json:"invoice_id" gorm:"not null;index"`
	Amount    float64 `json:"amount" gorm:"not null"`
	Method    string  `json:"method" gorm:"default:manual"` // manual, stripe
	Reference string  `json:"reference"`                    // check no, stripe payment intent id
	Date      string  `json:"date"`                         // YYYY-MM-DD
}

// Recalculate derives subtotal, tax and total from the line items.
func (inv *Invoice) Recalculate() {
	var subtotal float64
	for _, item := range inv.LineItems {
		subtotal += item.Quantity * item.UnitPrice
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = subtotal * inv.TaxRate
	inv.Total = subtotal + inv.TaxAmount
}

// AmountPaid sums all recorded payments.
func (inv *Invoice) AmountPaid() float64 {
	var paid float64
	for _, p := range inv.Payments {
		paid += p.Amount
	}
	return paid
}

// Balance is what remains owed on the invoice.
func (inv *Invoice) Balance() float64 {
	return inv.Total - inv.AmountPaid()
}

// NextInvoiceNumber produces the next number in the INV-YYYY-NNNN sequence.
// The count is per calendar year.
func NextInvoiceNumber(db *gorm.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INV-%d-", year)
	var count int64
	if err := db.Model(&Invoice{}).Where("number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
