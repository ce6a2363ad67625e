package Controllers

import (
	"io"
	"strconv"
	"time"

	"Crane/Models"
	"Crane/Storage"
	"Crane/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DocumentController handles project document storage on R2
type DocumentController struct {
	DB *gorm.DB
}

func NewDocumentController(db *gorm.DB) *DocumentController {
	return &DocumentController{DB: db}
}

// GetProjectDocuments lists documents for a project.
func (c *DocumentController) GetProjectDocuments(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := c.DB.Where("project_id = ?", projectID)
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var documents []Models.Document
	if result := query.Order("created_at DESC").Find(&documents); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve documents"})
	}
	return ctx.JSON(documents)
}

// UploadDocument stores a multipart file in R2 and records it.
func (c *DocumentController) UploadDocument(ctx *fiber.Ctx) error {
	store := Storage.Get()
	if store == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage is not configured"})
	}

	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
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

	contentType := fileHeader.Header.Get("Content-Type")
	key := Storage.ObjectKey(uint(projectID), fileHeader.Filename)
	if err := store.Upload(ctx.Context(), key, data, contentType); err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to store file"})
	}

	document := Models.Document{
		ProjectID:  uint(projectID),
		UploaderID: middleware.CurrentUser(ctx).ID,
		Name:       fileHeader.Filename,
		ObjectKey:  key,
		MimeType:   contentType,
		SizeBytes:  fileHeader.Size,
		Category:   ctx.FormValue("category", "general"),
	}
	if result := c.DB.Create(&document); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save document"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(document)
}

// GetDownloadURL returns a presigned GET URL valid for 15 minutes.
func (c *DocumentController) GetDownloadURL(ctx *fiber.Ctx) error {
	store := Storage.Get()
	if store == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage is not configured"})
	}

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
	}

	var document Models.Document
	if result := c.DB.First(&document, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	url, err := store.PresignDownload(ctx.Context(), document.ObjectKey, 15*time.Minute)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to presign download"})
	}
	return ctx.JSON(fiber.Map{"url": url})
}

// DeleteDocument removes the record and the stored object.
func (c *DocumentController) DeleteDocument(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
	}

	var document Models.Document
	if result := c.DB.First(&document, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	if store := Storage.Get(); store != nil {
		// Orphaned objects are preferable to dangling records.
		_ = store.Delete(ctx.Context(), document.ObjectKey)
	}

	c.DB.Delete(&document)
	return ctx.JSON(fiber.Map{"message": "Document deleted successfully"})
}
