package Controllers

import (
	"strconv"

	"Crane/Models"
	"Crane/StreamChat"
	"Crane/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ChatController hands out Stream Chat credentials and wires project channels
type ChatController struct {
	DB     *gorm.DB
	Stream *StreamChat.Client
}

func NewChatController(db *gorm.DB) *ChatController {
	return &ChatController{DB: db, Stream: StreamChat.NewClient()}
}

// GetChatToken upserts the current user on Stream and mints their token.
func (c *ChatController) GetChatToken(ctx *fiber.Ctx) error {
	if !c.Stream.Enabled() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Chat is not configured"})
	}

	user := middleware.CurrentUser(ctx)
	if err := c.Stream.UpsertUser(user.ID, user.Name); err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to register chat user"})
	}

	token, err := c.Stream.UserToken(user.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mint chat token"})
	}

	return ctx.JSON(fiber.Map{
		"token":   token,
		"api_key": c.Stream.APIKey,
	})
}

// EnsureProjectChannel creates the project's messaging channel with the
// client and all staff as members, and stores the channel ID.
func (c *ChatController) EnsureProjectChannel(ctx *fiber.Ctx) error {
	if !c.Stream.Enabled() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Chat is not configured"})
	}

	projectID, err := strconv.Atoi(ctx.Params("project_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if result := c.DB.First(&project, projectID); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	if project.ChatChannelID != "" {
		return ctx.JSON(fiber.Map{"channel_id": project.ChatChannelID})
	}

	var staff []Models.User
	c.DB.Where("permission >= ? AND is_approved = ?", Models.PermissionStaff, true).Find(&staff)

	memberIDs := make([]uint, 0, len(staff)+1)
	if project.ClientID != 0 {
		memberIDs = append(memberIDs, project.ClientID)
	}
	for _, u := range staff {
		memberIDs = append(memberIDs, u.ID)
	}

	channelID, err := c.Stream.CreateProjectChannel(project.ID, project.Name, memberIDs)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create chat channel"})
	}

	c.DB.Model(&project).Update("chat_channel_id", channelID)
	return ctx.JSON(fiber.Map{"channel_id": channelID})
}
