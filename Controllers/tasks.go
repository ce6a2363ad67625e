package Controllers

import (
	"strconv"

	"Crane/Models"
	"Crane/Notifications"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TaskController handles task-related API endpoints
type TaskController struct {
	DB *gorm.DB
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db}
}

// GetProjectTasks lists tasks for a project, optionally filtered by status.
func (c *TaskController) GetProjectTasks(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := c.DB.Where("project_id = ?", projectID)
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []Models.Task
	if result := query.Order("due_date").Find(&tasks); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}
	return ctx.JSON(tasks)
}

// CreateTask creates a task under a project and notifies the assignee.
func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.Task
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Title == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	task := Models.Task{
		ProjectID:  uint(projectID),
		Title:      input.Title,
		Details:    input.Details,
		AssigneeID: input.AssigneeID,
		Priority:   input.Priority,
		DueDate:    input.DueDate,
	}
	if input.Status != "" {
		task.Status = input.Status
	}

	if result := c.DB.Create(&task); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	go Notifications.NotifyTaskAssigned(c.DB, &task, project.Name)

	return ctx.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask updates an existing task. Reassignment pushes a notification.
func (c *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if result := c.DB.First(&task, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	var input Models.Task
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	reassigned := input.AssigneeID != nil &&
		(task.AssigneeID == nil || *task.AssigneeID != *input.AssigneeID)

	c.DB.Model(&task).Updates(Models.Task{
		Title:      input.Title,
		Details:    input.Details,
		AssigneeID: input.AssigneeID,
		Status:     input.Status,
		Priority:   input.Priority,
		DueDate:    input.DueDate,
	})

	if reassigned {
		var project Models.Project
		if result := c.DB.First(&project, task.ProjectID); result.Error == nil {
			go Notifications.NotifyTaskAssigned(c.DB, &task, project.Name)
		}
	}

	return ctx.JSON(task)
}

// DeleteTask soft deletes a task
func (c *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if result := c.DB.First(&task, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	c.DB.Delete(&task)
	return ctx.JSON(fiber.Map{"message": "Task deleted successfully"})
}
