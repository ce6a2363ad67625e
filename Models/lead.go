package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lead struct {
	gorm.Model
	Name   string `json:"name" gorm:"not null"`
	Email  string `json:"email" gorm:"index"`
	Phone  string `json:"phone"`
	Source string `json:"source"`                     // website, referral, ads, agent
	Status string `json:"status" gorm:"default:new"` // new, contacted, qualified, won, lost
	Notes  string `json:"notes"`

	Messages []LeadMessage `json:"messages,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	Facts    []LeadFact    `json:"facts,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

// LeadMessage is one turn of an agent conversation.
type LeadMessage struct {
	gorm.Model
	LeadID  uint   `json:"lead_id" gorm:"not null;index"`
	Role    string `json:"role" gorm:"not null"` // user, assistant, tool
	Content string `json:"content"`
}

// LeadFact is a durable fact extracted from a conversation, with its
// embedding stored inline as a JSON float array for cosine retrieval.
type LeadFact struct {
	gorm.Model
	LeadID    uint           `json:"lead_id" gorm:"not null;index"`
	Fact      string         `json:"fact" gorm:"not null"`
	Embedding datatypes.JSON `json:"-"` // []float64
}
