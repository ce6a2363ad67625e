package middleware

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"Crane/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"gorm.io/gorm"
)

func setupAPIKeyApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	Models.DB = db

	plaintext, hash := Models.GenerateAPIKey()
	require.NoError(t, db.Create(&Models.APIKey{
		Name: "widget", KeyHash: hash, Prefix: plaintext[:11], Scopes: "leads",
	}).Error)

	app := fiber.New()
	app.Get("/protected", VerifyAPIKey("leads"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/media-scope", VerifyAPIKey("media"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app, plaintext
}

func TestVerifyAPIKeyAllowsValidKey(t *testing.T) {
	app, key := setupAPIKeyApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", key)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Usage is stamped
	var stored Models.APIKey
	require.NoError(t, Models.DB.Where("key_hash = ?", Models.HashAPIKey(key)).First(&stored).Error)
	assert.NotNil(t, stored.LastUsedAt)
}

func TestVerifyAPIKeyRejectsMissingAndUnknown(t *testing.T) {
	app, _ := setupAPIKeyApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "ck_not_a_real_key")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyAPIKeyEnforcesScope(t *testing.T) {
	app, key := setupAPIKeyApp(t)

	req := httptest.NewRequest("GET", "/media-scope", nil)
	req.Header.Set("X-API-Key", key)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerifyAPIKeyRejectsRevoked(t *testing.T) {
	app, key := setupAPIKeyApp(t)

	require.NoError(t, Models.DB.Model(&Models.APIKey{}).
		Where("key_hash = ?", Models.HashAPIKey(key)).
		Update("revoked", true).Error)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", key)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
