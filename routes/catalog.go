package routes

import (
	"strconv"
	"time"

	"grocermart/db"
	"grocermart/models"

	"github.com/gofiber/fiber/v2"
)

// userDashboard lists every category's products, optionally filtered by
// maximum price, category name and minimum expiry date. Filters compose
// with AND and are applied in-process per category. A malformed price or
// date is a fatal request error.
func userDashboard(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if !isLoggedIn(sess) {
		return c.Redirect("/")
	}

	maxPriceStr := c.Query("price")
	selectedCategory := c.Query("category")
	minExpiryStr := c.Query("min_expiry_date")

	var maxPrice float64
	if maxPriceStr != "" {
		maxPrice, err = strconv.ParseFloat(maxPriceStr, 64)
		if err != nil {
			return err
		}
	}

	var minExpiry time.Time
	if minExpiryStr != "" {
		minExpiry, err = time.Parse("2006-01-02", minExpiryStr)
		if err != nil {
			return err
		}
	}

	var categories []models.Category
	if err := db.DB.Preload("Products").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load catalog")
	}

	sections := []CategorySection{}
	for _, category := range categories {
		if selectedCategory != "" && category.Name != selectedCategory {
			continue
		}
		products := category.Products
		if maxPriceStr != "" {
			filtered := make([]models.Product, 0, len(products))
			for _, product := range products {
				if product.RatePerUnit <= maxPrice {
					filtered = append(filtered, product)
				}
			}
			products = filtered
		}
		if minExpiryStr != "" {
			filtered := make([]models.Product, 0, len(products))
			for _, product := range products {
				if !product.ExpiryDate.Before(minExpiry) {
					filtered = append(filtered, product)
				}
			}
			products = filtered
		}
		sections = append(sections, CategorySection{Name: category.Name, Products: products})
	}

	return renderPage(c, sess, "user_dashboard", fiber.Map{"Categories": sections})
}
