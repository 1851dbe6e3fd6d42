package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citelink/citelink/internal/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger("error", "json")
}

func TestAPIKeyAuth_RejectsMissingKey(t *testing.T) {
	app := fiber.New()
	cfg := DefaultAuthConfig()
	app.Get("/protected", APIKeyAuth(cfg, testLogger()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIKeyAuth_RejectsUnknownKey(t *testing.T) {
	app := fiber.New()
	cfg := DefaultAuthConfig()
	app.Get("/protected", APIKeyAuth(cfg, testLogger()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "nope")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIKeyAuth_AcceptsKnownKeyAndSetsClientID(t *testing.T) {
	app := fiber.New()
	cfg := DefaultAuthConfig()
	cfg.APIKeys["secret-key"] = "client-1"

	app.Get("/protected", APIKeyAuth(cfg, testLogger()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"client_id": c.Locals("client_id")})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "secret-key")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTAuth_RejectsMissingBearerToken(t *testing.T) {
	app := fiber.New()
	cfg := DefaultAuthConfig()
	cfg.JWTSecret = "test-secret"
	app.Get("/protected", JWTAuth(cfg, testLogger()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTAuth_AcceptsValidToken(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.JWTSecret = "test-secret"

	token, err := GenerateJWT("user-1", "client-1", []string{"admin"}, cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", JWTAuth(cfg, testLogger()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTAuth_RejectsTamperedToken(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.JWTSecret = "test-secret"

	token, err := GenerateJWT("user-1", "client-1", nil, cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", JWTAuth(cfg, testLogger()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token+"tampered")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles_ForbidsWithoutRequiredRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals("roles", []string{"viewer"})
		return c.Next()
	}, RequireRoles("admin"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoles_AllowsWithRequiredRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals("roles", []string{"admin"})
		return c.Next()
	}, RequireRoles("admin"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMaskAPIKey_MasksLongKeysButNotShortOnes(t *testing.T) {
	assert.Equal(t, "***", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh...**************", maskAPIKey("abcdefghijklmnopqrstuv"))
}
