package middleware

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"Crane/Models"

	"github.com/gofiber/fiber/v2"
)

// LogData contains all the information that will be logged per request.
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserAgent string        `json:"user_agent"`
	Error     string        `json:"error,omitempty"`
	UserID    interface{}   `json:"user_id,omitempty"`
}

var (
	logFileMu sync.Mutex
	logFile   *os.File
)

// RequestLogger logs every request as a JSON line to logs/requests.log and
// a short line to the console. Health checks are skipped.
func RequestLogger() fiber.Handler {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
	}
	f, err := os.OpenFile("logs/requests.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening request log file: %v\n", err)
	} else {
		logFile = f
	}

	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		data := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		}
		if err != nil {
			data.Error = err.Error()
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
		}

		log.Println(data.Method, data.Path, data.Status, data.Latency)

		if logFile != nil {
			line, marshalErr := json.Marshal(data)
			if marshalErr == nil {
				logFileMu.Lock()
				logFile.Write(append(line, '\n'))
				logFileMu.Unlock()
			}
		}

		return err
	}
}
