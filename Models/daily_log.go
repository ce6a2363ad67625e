package Models

import (
	"time"

	"gorm.io/gorm"
)

type DailyLog struct {
	gorm.Model
	ProjectID     uint   `json:"project_id" gorm:"not null;index"`
	AuthorID      uint   `json:"author_id"`
	Date          string `json:"date" gorm:"not null;index"` // YYYY-MM-DD
	Weather       string `json:"weather"`
	CrewCount     int    `json:"crew_count"`
	WorkPerformed string `json:"work_performed"`
	Notes         string `json:"notes"`
}

type PunchListItem struct {
	gorm.Model
	ProjectID   uint       `json:"project_id" gorm:"not null;index"`
	Description string     `json:"description" gorm:"not null"`
	Location    string     `json:"location"` // e.g. "2nd floor, unit B"
	AssigneeID  *uint      `json:"assignee_id" gorm:"index"`
	Status      string     `json:"status" gorm:"default:open"` // open, in_progress, resolved
	PhotoKey    string     `json:"photo_key"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}
