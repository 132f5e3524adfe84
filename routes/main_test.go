package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"grocermart/db"
	"grocermart/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp points the global DB at a fresh SQLite file and builds an app
// with the real routes and views.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	var err error
	db.DB, err = gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.DB.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.SalesRegister{},
	))

	engine := html.New("../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	SetupRoutes(app)
	return app
}

func doGet(t *testing.T, app *fiber.App, target, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.Header.Set("Cookie", "session_id="+cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doPost(t *testing.T, app *fiber.App, target, cookie string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", "session_id="+cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// sessionCookie returns the session ID set by the response, or the fallback
// when the response did not set one.
func sessionCookie(resp *http.Response, fallback string) string {
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Value
		}
	}
	return fallback
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return string(body)
}

func seedUser(t *testing.T, username, password, userType string) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.User{
		Username: username,
		Password: password,
		UserType: userType,
	}).Error)
}

func seedCategory(t *testing.T, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.DB.Create(&category).Error)
	return category
}

func seedProduct(t *testing.T, category models.Category, name, unit string, rate float64, quantity int, expiry time.Time) models.Product {
	t.Helper()
	product := models.Product{
		Name:              name,
		Unit:              unit,
		RatePerUnit:       rate,
		Quantity:          quantity,
		CategoryID:        category.ID,
		ManufacturingDate: expiry.AddDate(-1, 0, 0),
		ExpiryDate:        expiry,
	}
	require.NoError(t, db.DB.Create(&product).Error)
	return product
}

// loginAs posts the credentials and returns the session cookie.
func loginAs(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := doPost(t, app, "/", "", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	cookie := sessionCookie(resp, "")
	require.NotEmpty(t, cookie)
	return cookie
}

func productByName(t *testing.T, name string) models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.DB.Where("name = ?", name).First(&product).Error)
	return product
}

func salesFor(t *testing.T, name string) []models.SalesRegister {
	t.Helper()
	var sales []models.SalesRegister
	require.NoError(t, db.DB.Where("product_name = ?", name).Find(&sales).Error)
	return sales
}
