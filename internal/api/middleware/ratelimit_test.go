package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimitStorage_GetReusesLimiterForSameKey(t *testing.T) {
	s := NewInMemoryRateLimitStorage(10, 20)

	first := s.Get("client-1")
	second := s.Get("client-1")

	assert.Same(t, first, second)
}

func TestInMemoryRateLimitStorage_ResetRemovesLimiter(t *testing.T) {
	s := NewInMemoryRateLimitStorage(10, 20)

	first := s.Get("client-1")
	s.Reset("client-1")
	second := s.Get("client-1")

	assert.NotSame(t, first, second)
}

func TestRateLimit_AllowsWithinBurstThenRejects(t *testing.T) {
	app := fiber.New()
	cfg := &RateLimitConfig{RPS: 1, Burst: 1}
	app.Get("/limited", RateLimit(cfg, testLogger()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	first, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, first.StatusCode)

	second, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, second.StatusCode)
}

func TestEndpointRateLimit_FallsBackToDefaultLimit(t *testing.T) {
	app := fiber.New()
	cfg := &EndpointRateLimitConfig{
		Limits:       map[string]*RateLimitConfig{},
		DefaultLimit: &RateLimitConfig{RPS: 1, Burst: 1},
	}
	app.Get("/unlisted", EndpointRateLimit(cfg, testLogger()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	first, err := app.Test(httptest.NewRequest("GET", "/unlisted", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, first.StatusCode)

	second, err := app.Test(httptest.NewRequest("GET", "/unlisted", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, second.StatusCode)
}
