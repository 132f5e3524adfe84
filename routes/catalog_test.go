package routes

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestDashboardRequiresLogin(t *testing.T) {
	app := setupTestApp(t)

	resp := doGet(t, app, "/user_dashboard", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestDashboardFilters(t *testing.T) {
	app := setupTestApp(t)
	seedUser(t, "alice", "secret", "Customer")

	dairy := seedCategory(t, "Dairy")
	bakery := seedCategory(t, "Bakery")
	seedProduct(t, dairy, "Milk", "liter", 2.5, 10, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	seedProduct(t, dairy, "Cheese", "kg", 15, 5, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	seedProduct(t, bakery, "Bread", "loaf", 3, 8, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	cookie := loginAs(t, app, "alice", "secret")

	resp := doGet(t, app, "/user_dashboard?price=10", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "Bread")
	assert.NotContains(t, body, "Cheese")

	resp = doGet(t, app, "/user_dashboard?min_expiry_date=2025-01-01", cookie)
	body = readBody(t, resp)
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "Bread")
	assert.NotContains(t, body, "Cheese")

	resp = doGet(t, app, "/user_dashboard?category=Dairy", cookie)
	body = readBody(t, resp)
	assert.Contains(t, body, "Milk")
	assert.NotContains(t, body, "Bread")

	// Filters AND-compose.
	resp = doGet(t, app, "/user_dashboard?price=10&min_expiry_date=2025-03-01&category=Dairy", cookie)
	body = readBody(t, resp)
	assert.Contains(t, body, "Milk")
	assert.NotContains(t, body, "Cheese")
	assert.NotContains(t, body, "Bread")
}

func TestDashboardMalformedDateFails(t *testing.T) {
	app := setupTestApp(t)
	seedUser(t, "alice", "secret", "Customer")
	cookie := loginAs(t, app, "alice", "secret")

	resp := doGet(t, app, "/user_dashboard?min_expiry_date=01-01-2025", cookie)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
