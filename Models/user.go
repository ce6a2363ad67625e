package Models

import (
	"gorm.io/gorm"
)

// Permission levels used across the API:
// 1 = client, 2 = staff, 3 = manager, 4 = admin
const (
	PermissionClient  = 1
	PermissionStaff   = 2
	PermissionManager = 3
	PermissionAdmin   = 4
)

type User struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	Email      string `json:"email" gorm:"not null;uniqueIndex"`
	Password   []byte `json:"-"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Permission int    `json:"permission" gorm:"default:1"`
	IsApproved bool   `json:"is_approved" gorm:"default:false"`

	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:ClientID"`
}

// FCMToken stores a device registration token for push notifications.
type FCMToken struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"not null;index"`
	Token  string `json:"token" gorm:"not null;uniqueIndex"`
}
