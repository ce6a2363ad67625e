package Controllers

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"Crane/middleware"

	"github.com/gofiber/fiber/v2"
)

// LogController exposes the request log to admins
type LogController struct {
	LogPath string
}

func NewLogController() *LogController {
	return &LogController{LogPath: "logs/requests.log"}
}

// GetRequestLogs returns the most recent request log entries, newest first.
// Filterable by path substring and status code.
func (c *LogController) GetRequestLogs(ctx *fiber.Ctx) error {
	limit, err := strconv.Atoi(ctx.Query("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}
	pathFilter := ctx.Query("path")
	statusFilter, _ := strconv.Atoi(ctx.Query("status"))

	f, err := os.Open(c.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ctx.JSON([]middleware.LogData{})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open request log"})
	}
	defer f.Close()

	var entries []middleware.LogData
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry middleware.LogData
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if pathFilter != "" && !strings.Contains(strings.ToLower(entry.Path), strings.ToLower(pathFilter)) {
			continue
		}
		if statusFilter != 0 && entry.Status != statusFilter {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read request log"})
	}

	// Newest first, capped at the limit.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []middleware.LogData{}
	}
	return ctx.JSON(entries)
}
