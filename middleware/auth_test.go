package middleware

import (
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"Crane/Config"
	"Crane/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	Config.AppConfig.JWTSecret = "test-jwt-secret"

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	Models.DB = db

	app := fiber.New()
	app.Get("/staff", Verify(Models.PermissionStaff), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": CurrentUser(c).ID})
	})
	return app
}

func createUser(t *testing.T, permission int, approved bool) Models.User {
	t.Helper()
	user := Models.User{
		Name:       "Test User",
		Email:      "user" + strconv.Itoa(permission) + strconv.FormatBool(approved) + "@example.com",
		Permission: permission,
		IsApproved: approved,
	}
	require.NoError(t, Models.DB.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.Itoa(int(userID)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(Config.AppConfig.JWTSecret))
	require.NoError(t, err)
	return signed
}

func TestVerifyAllowsSufficientPermission(t *testing.T) {
	app := setupAuthApp(t)
	user := createUser(t, Models.PermissionManager, true)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Cookie", "jwt="+tokenFor(t, user.ID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyRejectsMissingCookie(t *testing.T) {
	app := setupAuthApp(t)

	req := httptest.NewRequest("GET", "/staff", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyRejectsBadToken(t *testing.T) {
	app := setupAuthApp(t)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Cookie", "jwt=not.a.token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyRejectsUnapprovedAccount(t *testing.T) {
	app := setupAuthApp(t)
	user := createUser(t, Models.PermissionStaff, false)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Cookie", "jwt="+tokenFor(t, user.ID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerifyRejectsInsufficientPermission(t *testing.T) {
	app := setupAuthApp(t)
	user := createUser(t, Models.PermissionClient, true)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Cookie", "jwt="+tokenFor(t, user.ID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	app := setupAuthApp(t)
	user := createUser(t, Models.PermissionStaff, true)

	claims := jwt.RegisteredClaims{
		Issuer:    strconv.Itoa(int(user.ID)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(Config.AppConfig.JWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Cookie", "jwt="+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
