package Controllers

import (
	"encoding/json"
	"strconv"

	"Crane/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScheduleController handles the Gantt schedule endpoints
type ScheduleController struct {
	DB *gorm.DB
}

func NewScheduleController(db *gorm.DB) *ScheduleController {
	return &ScheduleController{DB: db}
}

// GetSchedule lists the Gantt items for a project.
func (c *ScheduleController) GetSchedule(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var items []Models.ScheduleItem
	if result := c.DB.Where("project_id = ?", projectID).Order("start_day").Find(&items); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve schedule"})
	}
	return ctx.JSON(items)
}

// CreateScheduleItem adds a Gantt bar to a project.
func (c *ScheduleController) CreateScheduleItem(ctx *fiber.Ctx) error {
	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var input Models.ScheduleItem
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Label == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Label is required"})
	}
	if input.DurationDays <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Duration must be at least one day"})
	}

	item := Models.ScheduleItem{
		ProjectID:       uint(projectID),
		TaskID:          input.TaskID,
		Label:           input.Label,
		StartDay:        input.StartDay,
		DurationDays:    input.DurationDays,
		ProgressPercent: input.ProgressPercent,
		Dependencies:    input.Dependencies,
		Color:           input.Color,
	}

	if err := c.validateDependencies(uint(projectID), 0, item.Dependencies); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if result := c.DB.Create(&item); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create schedule item"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

type RescheduleInput struct {
	StartDay     int `json:"start_day"`
	DurationDays int `json:"duration_days"`
}

// Reschedule moves a bar and pushes any dependent bars that would now
// start before it ends. Shifts ripple through the dependency chain.
func (c *ScheduleController) Reschedule(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule item ID"})
	}

	var item Models.ScheduleItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule item not found"})
	}

	var input RescheduleInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.DurationDays <= 0 {
		input.DurationDays = item.DurationDays
	}

	var siblings []Models.ScheduleItem
	if result := c.DB.Where("project_id = ?", item.ProjectID).Find(&siblings); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}

	item.StartDay = input.StartDay
	item.DurationDays = input.DurationDays

	updated := shiftDependents(&item, siblings)
	updated = append(updated, item)

	err = c.DB.Transaction(func(tx *gorm.DB) error {
		for i := range updated {
			if err := tx.Model(&Models.ScheduleItem{}).Where("id = ?", updated[i].ID).
				Updates(map[string]interface{}{
					"start_day":     updated[i].StartDay,
					"duration_days": updated[i].DurationDays,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reschedule"})
	}

	return ctx.JSON(fiber.Map{"updated": updated})
}

// UpdateScheduleItem edits label, progress, color or dependencies.
func (c *ScheduleController) UpdateScheduleItem(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule item ID"})
	}

	var item Models.ScheduleItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule item not found"})
	}

	var input Models.ScheduleItem
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Dependencies != nil {
		if err := c.validateDependencies(item.ProjectID, item.ID, input.Dependencies); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.DB.Model(&item).Updates(Models.ScheduleItem{
		Label:           input.Label,
		ProgressPercent: input.ProgressPercent,
		Dependencies:    input.Dependencies,
		Color:           input.Color,
	})
	return ctx.JSON(item)
}

// DeleteScheduleItem removes a bar.
func (c *ScheduleController) DeleteScheduleItem(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid schedule item ID"})
	}

	var item Models.ScheduleItem
	if result := c.DB.First(&item, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Schedule item not found"})
	}

	c.DB.Delete(&item)
	return ctx.JSON(fiber.Map{"message": "Schedule item deleted successfully"})
}

// validateDependencies checks that every referenced ID is a schedule item
// of the same project and not the item itself.
func (c *ScheduleController) validateDependencies(projectID, selfID uint, deps []byte) error {
	ids, err := decodeDependencies(deps)
	if err != nil {
		return err
	}
	for _, depID := range ids {
		if depID == selfID {
			return fiber.NewError(fiber.StatusBadRequest, "Item cannot depend on itself")
		}
		var count int64
		c.DB.Model(&Models.ScheduleItem{}).Where("id = ? AND project_id = ?", depID, projectID).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dependency not found in project")
		}
	}
	return nil
}

func decodeDependencies(deps []byte) ([]uint, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal(deps, &ids); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Dependencies must be an array of IDs")
	}
	return ids, nil
}

// shiftDependents pushes items that depend (directly or transitively) on
// moved so they start no earlier than their dependencies end.
func shiftDependents(moved *Models.ScheduleItem, all []Models.ScheduleItem) []Models.ScheduleItem {
	byID := make(map[uint]*Models.ScheduleItem, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	byID[moved.ID] = moved

	var updated []Models.ScheduleItem
	// Repeat until no shift happens; chains are short so this settles fast.
	for changed := true; changed; {
		changed = false
		for i := range all {
			item := byID[all[i].ID]
			if item.ID == moved.ID {
				continue
			}
			ids, err := decodeDependencies(item.Dependencies)
			if err != nil {
				continue
			}
			minStart := item.StartDay
			for _, depID := range ids {
				if dep, ok := byID[depID]; ok && dep.EndDay() > minStart {
					minStart = dep.EndDay()
				}
			}
			if minStart > item.StartDay {
				item.StartDay = minStart
				changed = true
				updated = appendOrReplace(updated, *item)
			}
		}
	}
	return updated
}

func appendOrReplace(items []Models.ScheduleItem, item Models.ScheduleItem) []Models.ScheduleItem {
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
