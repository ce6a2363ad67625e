package Models

import (
	"gorm.io/gorm"
)

// Document is a file stored in R2. ObjectKey is the R2 key; downloads go
// through presigned URLs, never through this server.
type Document struct {
	gorm.Model
	ProjectID  uint   `json:"project_id" gorm:"index"`
	UploaderID uint   `json:"uploader_id"`
	Name       string `json:"name" gorm:"not null"`
	ObjectKey  string `json:"object_key" gorm:"not null;uniqueIndex"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	Category   string `json:"category" gorm:"default:general"` // general, contract, permit, drawing
}

// MediaItem is an uploaded photo or video. Latitude/Longitude come from the
// client (EXIF or device location); items uploaded without a project get
// assigned to the nearest project by the geo matcher.
type MediaItem struct {
	gorm.Model
	ProjectID    *uint   `json:"project_id" gorm:"index"`
	UploaderID   uint    `json:"uploader_id"`
	ObjectKey    string  `json:"object_key" gorm:"not null;uniqueIndex"`
	ThumbnailKey string  `json:"thumbnail_key"`
	MimeType     string  `json:"mime_type"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	HasLocation  bool    `json:"has_location"`
	TakenAt      string  `json:"taken_at"`
	Caption      string  `json:"caption"`
}
