package Models

import (
	"time"

	"gorm.io/gorm"
)

// Proposal is shared with prospects through a public token URL; the page
// itself is rendered server-side, no login required.
type Proposal struct {
	gorm.Model
	Title       string     `json:"title" gorm:"not null"`
	Body        string     `json:"body"`
	LeadID      *uint      `json:"lead_id" gorm:"index"`
	QuoteID     *uint      `json:"quote_id"`
	PublicToken string     `json:"public_token" gorm:"uniqueIndex"`
	Status      string     `json:"status" gorm:"default:draft"` // draft, sent, accepted, declined
	AcceptedAt  *time.Time `json:"accepted_at"`
}
