package Controllers

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"Crane/Config"
	"Crane/Geo"
	"Crane/Models"
	"Crane/Storage"
	"Crane/middleware"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MediaController handles photo/video uploads and geolocation matching
type MediaController struct {
	DB *gorm.DB
}

func NewMediaController(db *gorm.DB) *MediaController {
	return &MediaController{DB: db}
}

// GetMedia lists media, filterable by project or unassigned.
func (c *MediaController) GetMedia(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.MediaItem{})
	if projectID := ctx.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	} else if ctx.Query("unassigned") == "true" {
		query = query.Where("project_id IS NULL")
	}

	var items []Models.MediaItem
	if result := query.Order("created_at DESC").Find(&items); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve media"})
	}
	return ctx.JSON(items)
}

// UploadMedia stores an image or video in R2. Images get a 320px
// thumbnail stored next to the original. Latitude/longitude come from the
// client; items without a project are picked up by the geo matcher.
func (c *MediaController) UploadMedia(ctx *fiber.Ctx) error {
	store := Storage.Get()
	if store == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage is not configured"})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}

	item := Models.MediaItem{
		UploaderID: middleware.CurrentUser(ctx).ID,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		Caption:    ctx.FormValue("caption"),
		TakenAt:    ctx.FormValue("taken_at"),
	}

	if projectID, err := strconv.Atoi(ctx.FormValue("project_id")); err == nil && projectID > 0 {
		pid := uint(projectID)
		item.ProjectID = &pid
	}

	lat, latErr := strconv.ParseFloat(ctx.FormValue("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(ctx.FormValue("longitude"), 64)
	if latErr == nil && lngErr == nil && (lat != 0 || lng != 0) {
		item.Latitude = lat
		item.Longitude = lng
		item.HasLocation = true
	}

	var keyProject uint
	if item.ProjectID != nil {
		keyProject = *item.ProjectID
	}
	item.ObjectKey = Storage.ObjectKey(keyProject, fileHeader.Filename)

	if err := store.Upload(ctx.Context(), item.ObjectKey, data, item.MimeType); err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to store file"})
	}

	if strings.HasPrefix(item.MimeType, "image/") {
		if thumbKey, err := c.makeThumbnail(ctx, store, item.ObjectKey, data); err == nil {
			item.ThumbnailKey = thumbKey
		}
	}

	if result := c.DB.Create(&item); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save media"})
	}

	// Try matching right away rather than waiting for the hourly sweep.
	if item.ProjectID == nil && item.HasLocation {
		if assigned, err := Geo.MatchUnassignedMedia(c.DB, Config.AppConfig.GeoMatchRadiusM); err == nil && assigned > 0 {
			c.DB.First(&item, item.ID)
		}
	}

	return ctx.Status(fiber.StatusCreated).JSON(item)
}

func (c *MediaController) makeThumbnail(ctx *fiber.Ctx, store *Storage.Client, originalKey string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", err
	}

	thumbKey := strings.TrimSuffix(originalKey, "."+extOf(originalKey)) + "_thumb.jpg"
	if err := store.Upload(ctx.Context(), thumbKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return thumbKey, nil
}

func extOf(key string) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		return key[idx+1:]
	}
	return ""
}

// GetMediaURL presigns the original (or thumbnail with ?thumb=true).
func (c *MediaController) GetMediaURL(ctx *fiber.Ctx) error {
	store := Storage.Get()
	if store == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage is not configured"})
	}

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid media ID"})
	}

	var item Models.MediaItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Media not found"})
	}

	key := item.ObjectKey
	if ctx.Query("thumb") == "true" && item.ThumbnailKey != "" {
		key = item.ThumbnailKey
	}

	url, err := store.PresignDownload(ctx.Context(), key, 15*time.Minute)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to presign download"})
	}
	return ctx.JSON(fiber.Map{"url": url})
}

// RunGeoMatch triggers the nearest-project assignment sweep on demand.
func (c *MediaController) RunGeoMatch(ctx *fiber.Ctx) error {
	assigned, err := Geo.MatchUnassignedMedia(c.DB, Config.AppConfig.GeoMatchRadiusM)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Geo matching failed"})
	}
	return ctx.JSON(fiber.Map{"assigned": assigned})
}

// DeleteMedia removes the record and stored objects.
func (c *MediaController) DeleteMedia(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid media ID"})
	}

	var item Models.MediaItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Media not found"})
	}

	if store := Storage.Get(); store != nil {
		_ = store.Delete(ctx.Context(), item.ObjectKey)
		if item.ThumbnailKey != "" {
			_ = store.Delete(ctx.Context(), item.ThumbnailKey)
		}
	}

	c.DB.Delete(&item)
	return ctx.JSON(fiber.Map{"message": "Media deleted successfully"})
}
