package Controllers

import (
	"strconv"
	"time"

	"Crane/Models"
	"Crane/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DailyLogController handles field daily log endpoints
type DailyLogController struct {
	DB *gorm.DB
}

func NewDailyLogController(db *gorm.DB) *DailyLogController {
	return &DailyLogController{DB: db}
}

// GetProjectLogs lists daily logs, newest first, optionally for one date.
func (c *DailyLogController) GetProjectLogs(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := c.DB.Where("project_id = ?", projectID)
	if date := ctx.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var logs []Models.DailyLog
	if result := query.Order("date DESC").Find(&logs); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve daily logs"})
	}
	return ctx.JSON(logs)
}

// CreateLog records a daily log entry for a project.
func (c *DailyLogController) CreateLog(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.DailyLog
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Date == "" {
		input.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	entry := Models.DailyLog{
		ProjectID:     uint(projectID),
		AuthorID:      middleware.CurrentUser(ctx).ID,
		Date:          input.Date,
		Weather:       input.Weather,
		CrewCount:     input.CrewCount,
		WorkPerformed: input.WorkPerformed,
		Notes:         input.Notes,
	}
	if result := c.DB.Create(&entry); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create daily log"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateLog edits a daily log entry.
func (c *DailyLogController) UpdateLog(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid daily log ID"})
	}

	var entry Models.DailyLog
	if result := c.DB.First(&entry, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Daily log not found"})
	}

	var input Models.DailyLog
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&entry).Updates(Models.DailyLog{
		Weather:       input.Weather,
		CrewCount:     input.CrewCount,
		WorkPerformed: input.WorkPerformed,
		Notes:         input.Notes,
	})
	return ctx.JSON(entry)
}

// DeleteLog removes a daily log entry.
func (c *DailyLogController) DeleteLog(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid daily log ID"})
	}

	var entry Models.DailyLog
	if result := c.DB.First(&entry, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Daily log not found"})
	}

	c.DB.Delete(&entry)
	return ctx.JSON(fiber.Map{"message": "Daily log deleted successfully"})
}
