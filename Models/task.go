package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Task struct {
	gorm.Model
	ProjectID  uint   `json:"project_id" gorm:"not null;index"`
	Title      string `json:"title" gorm:"not null"`
	Details    string `json:"details"`
	AssigneeID *uint  `json:"assignee_id" gorm:"index"`
	Status     string `json:"status" gorm:"default:open"` // open, in_progress, done
	Priority   string `json:"priority" gorm:"default:normal"`
	DueDate    string `json:"due_date"` // YYYY-MM-DD
}

// ScheduleItem is a Gantt bar. Dependencies are schedule item IDs stored
// as a JSON array; a dependent may not start before all its dependencies end.
type ScheduleItem struct {
	gorm.Model
	ProjectID       uint           `json:"project_id" gorm:"not null;index"`
	TaskID          *uint          `json:"task_id" gorm:"index"`
	Label           string         `json:"label" gorm:"not null"`
	StartDay        int            `json:"start_day" gorm:"not null"` // offset in days from project start
	DurationDays    int            `json:"duration_days" gorm:"not null"`
	ProgressPercent int            `json:"progress_percent" gorm:"default:0"`
	Dependencies    datatypes.JSON `json:"dependencies"` // []uint of ScheduleItem IDs
	Color           string         `json:"color"`
}

// EndDay is the first day after the bar.
func (s *ScheduleItem) EndDay() int {
	return s.StartDay + s.DurationDays
}
