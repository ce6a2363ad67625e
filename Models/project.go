package Models

import (
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model
	Name      string  `json:"name" gorm:"not null"`
	ClientID  uint    `json:"client_id" gorm:"index"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Status    string  `json:"status" gorm:"default:planning"` // planning, active, on_hold, completed
	Budget    float64 `json:"budget"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD
	EndDate   string  `json:"end_date"`
	Notes     string  `json:"notes"`

	ChatChannelID string `json:"chat_channel_id"`

	// Relationships
	Tasks         []Task          `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	ScheduleItems []ScheduleItem  `json:"schedule_items,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Invoices      []Invoice       `json:"invoices,omitempty" gorm:"foreignKey:ProjectID"`
	Quotes        []Quote         `json:"quotes,omitempty" gorm:"foreignKey:ProjectID"`
	Documents     []Document      `json:"documents,omitempty" gorm:"foreignKey:ProjectID"`
	DailyLogs     []DailyLog      `json:"daily_logs,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	PunchList     []PunchListItem `json:"punch_list,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Expenses      []Expense       `json:"expenses,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectSummary aggregates per-project figures for the portal dashboard.
// Not stored; built by the projects controller.
type ProjectSummary struct {
	ProjectID         uint    `json:"project_id"`
	Name              string  `json:"name"`
	Status            string  `json:"status"`
	TaskCount         int64   `json:"task_count"`
	TasksDone         int64   `json:"tasks_done"`
	CompletionPercent float64 `json:"completion_percent"`
	InvoicedTotal     float64 `json:"invoiced_total"`
	PaidTotal         float64 `json:"paid_total"`
	ExpenseTotal      float64 `json:"expense_total"`
}
