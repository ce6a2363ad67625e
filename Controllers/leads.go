package Controllers

import (
	"strconv"

	"Crane/LeadAgent"
	"Crane/Models"
	"Crane/Validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeadController handles sales lead endpoints and the agent conversation
type LeadController struct {
	DB    *gorm.DB
	Agent *LeadAgent.Agent
}

func NewLeadController(db *gorm.DB) *LeadController {
	return &LeadController{DB: db, Agent: LeadAgent.NewAgent(db)}
}

// GetLeads lists leads, filterable by status and source.
func (c *LeadController) GetLeads(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.Lead{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := ctx.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var leads []Models.Lead
	if result := query.Order("created_at DESC").Find(&leads); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve leads"})
	}
	return ctx.JSON(leads)
}

// GetLead retrieves a lead with its conversation and facts.
func (c *LeadController) GetLead(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lead ID"})
	}

	var lead Models.Lead
	result := c.DB.Preload("Messages").Preload("Facts").First(&lead, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}
	return ctx.JSON(lead)
}

type CreateLeadInput struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
	Notes  string `json:"notes"`
}

// CreateLead registers a new lead. Also reachable with an API key so the
// website widget can create leads directly.
func (c *LeadController) CreateLead(ctx *fiber.Ctx) error {
	var input CreateLeadInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(input); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	lead := Models.Lead{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Source: input.Source,
		Notes:  input.Notes,
	}
	if result := c.DB.Create(&lead); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create lead"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(lead)
}

// UpdateLead edits lead details and pipeline status.
func (c *LeadController) UpdateLead(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lead ID"})
	}

	var lead Models.Lead
	if result := c.DB.First(&lead, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}

	var input Models.Lead
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.DB.Model(&lead).Updates(Models.Lead{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Source: input.Source,
		Status: input.Status,
		Notes:  input.Notes,
	})
	return ctx.JSON(lead)
}

// DeleteLead removes a lead; messages and facts cascade.
func (c *LeadController) DeleteLead(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lead ID"})
	}

	var lead Models.Lead
	if result := c.DB.First(&lead, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}

	c.DB.Delete(&lead)
	return ctx.JSON(fiber.Map{"message": "Lead deleted successfully"})
}

type ConverseInput struct {
	Message string `json:"message" validate:"required"`
}

// Converse runs one agent turn for the lead and returns the reply.
func (c *LeadController) Converse(ctx *fiber.Ctx) error {
	if !c.Agent.LLM.Enabled() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Lead agent is not configured"})
	}

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lead ID"})
	}

	var input ConverseInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(input); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	reply, err := c.Agent.Converse(uint(id), input.Message)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"reply": reply})
}
