package Controllers

import (
	"strconv"

	"Crane/Models"
	"Crane/Validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// APIKeyController manages machine integration keys (admin only)
type APIKeyController struct {
	DB *gorm.DB
}

func NewAPIKeyController(db *gorm.DB) *APIKeyController {
	return &APIKeyController{DB: db}
}

// GetAPIKeys lists keys; the hash is never serialized.
func (c *APIKeyController) GetAPIKeys(ctx *fiber.Ctx) error {
	var keys []Models.APIKey
	if result := c.DB.Order("created_at DESC").Find(&keys); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve API keys"})
	}
	return ctx.JSON(keys)
}

type CreateAPIKeyInput struct {
	Name   string `json:"name" validate:"required"`
	Scopes string `json:"scopes" validate:"required"`
}

// CreateAPIKey mints a key and returns the plaintext exactly once.
func (c *APIKeyController) CreateAPIKey(ctx *fiber.Ctx) error {
	var input CreateAPIKeyInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(input); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	plaintext, hash := Models.GenerateAPIKey()
	key := Models.APIKey{
		Name:    input.Name,
		KeyHash: hash,
		Prefix:  plaintext[:11],
		Scopes:  input.Scopes,
	}
	if result := c.DB.Create(&key); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create API key"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key":     plaintext,
		"api_key": key,
	})
}

// RevokeAPIKey disables a key without deleting its audit trail.
func (c *APIKeyController) RevokeAPIKey(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid API key ID"})
	}

	var key Models.APIKey
	if result := c.DB.First(&key, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "API key not found"})
	}

	c.DB.Model(&key).Update("revoked", true)
	return ctx.JSON(fiber.Map{"message": "API key revoked"})
}
