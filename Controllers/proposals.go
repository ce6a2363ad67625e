package Controllers

import (
	"strconv"
	"strings"
	"time"

	"Crane/Models"
	"Crane/Validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProposalController handles proposals and their public share pages
type ProposalController struct {
	DB *gorm.DB
}

func NewProposalController(db *gorm.DB) *ProposalController {
	return &ProposalController{DB: db}
}

// GetProposals lists proposals, filterable by status.
func (c *ProposalController) GetProposals(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.Proposal{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var proposals []Models.Proposal
	if result := query.Order("created_at DESC").Find(&proposals); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve proposals"})
	}
	return ctx.JSON(proposals)
}

// GetProposal retrieves a single proposal.
func (c *ProposalController) GetProposal(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid proposal ID"})
	}

	var proposal Models.Proposal
	if result := c.DB.First(&proposal, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Proposal not found"})
	}
	return ctx.JSON(proposal)
}

type CreateProposalInput struct {
	Title   string `json:"title" validate:"required"`
	Body    string `json:"body"`
	LeadID  *uint  `json:"lead_id"`
	QuoteID *uint  `json:"quote_id"`
}

// CreateProposal drafts a proposal and mints its public token.
func (c *ProposalController) CreateProposal(ctx *fiber.Ctx) error {
	var input CreateProposalInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(input); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if input.QuoteID != nil {
		var quote Models.Quote
		if result := c.DB.First(&quote, *input.QuoteID); result.Error != nil {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quote not found"})
		}
	}

	proposal := Models.Proposal{
		Title:       input.Title,
		Body:        input.Body,
		LeadID:      input.LeadID,
		QuoteID:     input.QuoteID,
		PublicToken: strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	if result := c.DB.Create(&proposal); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create proposal"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(proposal)
}

// UpdateProposal edits a proposal that has not been accepted.
func (c *ProposalController) UpdateProposal(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid proposal ID"})
	}

	var proposal Models.Proposal
	if result := c.DB.First(&proposal, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Proposal not found"})
	}
	if proposal.Status == "accepted" {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Accepted proposals cannot be edited"})
	}

	var input Models.Proposal
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Body != "" {
		updates["body"] = input.Body
	}
	if input.Status == "sent" || input.Status == "declined" || input.Status == "draft" {
		updates["status"] = input.Status
	}

	c.DB.Model(&proposal).Updates(updates)
	return ctx.JSON(proposal)
}

// DeleteProposal removes a proposal.
func (c *ProposalController) DeleteProposal(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid proposal ID"})
	}

	var proposal Models.Proposal
	if result := c.DB.First(&proposal, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Proposal not found"})
	}

	c.DB.Delete(&proposal)
	return ctx.JSON(fiber.Map{"message": "Proposal deleted successfully"})
}

// ViewPublicProposal renders the shared proposal page. No auth; the token
// is the credential.
func (c *ProposalController) ViewPublicProposal(ctx *fiber.Ctx) error {
	proposal, quote, ok := c.lookupByToken(ctx.Params("token"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).SendString("Proposal not found")
	}

	return ctx.Render("proposal", fiber.Map{
		"Proposal": proposal,
		"Quote":    quote,
		"Accepted": proposal.Status == "accepted",
	})
}

// AcceptPublicProposal records acceptance from the public page. Accepting
// twice is a no-op.
func (c *ProposalController) AcceptPublicProposal(ctx *fiber.Ctx) error {
	proposal, _, ok := c.lookupByToken(ctx.Params("token"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Proposal not found"})
	}

	if proposal.Status != "accepted" {
		now := time.Now()
		c.DB.Model(proposal).Updates(map[string]interface{}{
			"status":      "accepted",
			"accepted_at": &now,
		})

		if proposal.LeadID != nil {
			c.DB.Model(&Models.Lead{}).Where("id = ?", *proposal.LeadID).Update("status", "qualified")
		}
	}

	return ctx.JSON(fiber.Map{"message": "Proposal accepted"})
}

func (c *ProposalController) lookupByToken(token string) (*Models.Proposal, *Models.Quote, bool) {
	if token == "" {
		return nil, nil, false
	}

	var proposal Models.Proposal
	if result := c.DB.Where("public_token = ?", token).First(&proposal); result.Error != nil {
		return nil, nil, false
	}

	var quote *Models.Quote
	if proposal.QuoteID != nil {
		var q Models.Quote
		if result := c.DB.Preload("LineItems").First(&q, *proposal.QuoteID); result.Error == nil {
			quote = &q
		}
	}
	return &proposal, quote, true
}
