package Controllers

import (
	"strconv"
	"time"

	"Crane/Models"
	"Crane/Notifications"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PunchListController handles punch list endpoints
type PunchListController struct {
	DB *gorm.DB
}

func NewPunchListController(db *gorm.DB) *PunchListController {
	return &PunchListController{DB: db}
}

// GetProjectItems lists punch list items for a project.
func (c *PunchListController) GetProjectItems(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := c.DB.Where("project_id = ?", projectID)
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var items []Models.PunchListItem
	if result := query.Order("created_at").Find(&items); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve punch list"})
	}
	return ctx.JSON(items)
}

// CreateItem adds a punch list item and notifies the assignee.
func (c *PunchListController) CreateItem(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.PunchListItem
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Description == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Description is required"})
	}

	item := Models.PunchListItem{
		ProjectID:   uint(projectID),
		Description: input.Description,
		Location:    input.Location,
		AssigneeID:  input.AssigneeID,
		PhotoKey:    input.PhotoKey,
	}
	if result := c.DB.Create(&item); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create punch list item"})
	}

	go Notifications.NotifyPunchItemAssigned(c.DB, &item, project.Name)

	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItem edits a punch list item; moving to resolved stamps the time.
func (c *PunchListController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid punch list item ID"})
	}

	var item Models.PunchListItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Punch list item not found"})
	}

	var input Models.PunchListItem
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}
	if input.AssigneeID != nil {
		updates["assignee_id"] = input.AssigneeID
	}
	if input.PhotoKey != "" {
		updates["photo_key"] = input.PhotoKey
	}
	if input.Status != "" && input.Status != item.Status {
		updates["status"] = input.Status
		if input.Status == "resolved" {
			now := time.Now()
			updates["resolved_at"] = &now
		} else {
			updates["resolved_at"] = nil
		}
	}

	c.DB.Model(&item).Updates(updates)

	if input.AssigneeID != nil && (item.AssigneeID == nil || *item.AssigneeID != *input.AssigneeID) {
		var project Models.Project
		if result := c.DB.First(&project, item.ProjectID); result.Error == nil {
			item.AssigneeID = input.AssigneeID
			go Notifications.NotifyPunchItemAssigned(c.DB, &item, project.Name)
		}
	}

	return ctx.JSON(item)
}

// DeleteItem removes a punch list item.
func (c *PunchListController) DeleteItem(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid punch list item ID"})
	}

	var item Models.PunchListItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Punch list item not found"})
	}

	c.DB.Delete(&item)
	return ctx.JSON(fiber.Map{"message": "Punch list item deleted successfully"})
}
