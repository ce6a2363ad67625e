package Controllers

import (
	"strconv"
	"strings"

	"Crane/Models"
	"Crane/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProjectController handles project-related API endpoints
type ProjectController struct {
	DB *gorm.DB
}

func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{DB: db}
}

// GetProjects lists projects. Clients only see their own.
func (c *ProjectController) GetProjects(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)

	query := c.DB.Model(&Models.Project{})
	if user.Permission < Models.PermissionStaff {
		query = query.Where("client_id = ?", user.ID)
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []Models.Project
	if result := query.Order("created_at DESC").Find(&projects); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve projects"})
	}
	return ctx.JSON(projects)
}

// GetProject retrieves a single project by ID
func (c *ProjectController) GetProject(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	result := c.DB.Preload("Tasks").Preload("ScheduleItems").First(&project, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	user := middleware.CurrentUser(ctx)
	if user.Permission < Models.PermissionStaff && project.ClientID != user.ID {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your project"})
	}

	return ctx.JSON(project)
}

// CreateProject creates a new project
func (c *ProjectController) CreateProject(ctx *fiber.Ctx) error {
	var input Models.Project
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	project := Models.Project{
		Name:      input.Name,
		ClientID:  input.ClientID,
		Address:   input.Address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Budget:    input.Budget,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Notes:     input.Notes,
	}
	if input.Status != "" {
		project.Status = input.Status
	}

	result := c.DB.Create(&project)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "unique constraint") ||
			strings.Contains(result.Error.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A project with this name already exists"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create project"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject updates an existing project
func (c *ProjectController) UpdateProject(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.Project
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&project).Updates(Models.Project{
		Name:      input.Name,
		ClientID:  input.ClientID,
		Address:   input.Address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Status:    input.Status,
		Budget:    input.Budget,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Notes:     input.Notes,
	})

	return ctx.JSON(project)
}

// DeleteProject soft deletes a project; children cascade at the DB level.
func (c *ProjectController) DeleteProject(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	c.DB.Delete(&project)
	return ctx.JSON(fiber.Map{"message": "Project deleted successfully"})
}

// GetProjectSummary aggregates tasks and money figures for one project.
func (c *ProjectController) GetProjectSummary(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	summary := Models.ProjectSummary{
		ProjectID: project.ID,
		Name:      project.Name,
		Status:    project.Status,
	}

	c.DB.Model(&Models.Task{}).Where("project_id = ?", id).Count(&summary.TaskCount)
	c.DB.Model(&Models.Task{}).Where("project_id = ? AND status = ?", id, "done").Count(&summary.TasksDone)
	if summary.TaskCount > 0 {
		summary.CompletionPercent = float64(summary.TasksDone) / float64(summary.TaskCount) * 100
	}

	c.DB.Model(&Models.Invoice{}).
		Where("project_id = ? AND status NOT IN ?", id, []string{"draft", "void"}).
		Select("COALESCE(SUM(total), 0)").Scan(&summary.InvoicedTotal)
	c.DB.Model(&Models.Payment{}).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.project_id = ?", id).
		Select("COALESCE(SUM(payments.amount), 0)").Scan(&summary.PaidTotal)
	c.DB.Model(&Models.Expense{}).Where("project_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.ExpenseTotal)

	return ctx.JSON(summary)
}
