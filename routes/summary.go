package routes

import (
	"grocermart/db"
	"grocermart/models"

	"github.com/gofiber/fiber/v2"
)

type stockRow struct {
	Name         string
	Quantity     int
	CategoryName string
}

// StockItem is one product's current stock within a summary section.
type StockItem struct {
	Name     string
	Quantity int
}

// CategoryStock groups current stock per category for the summary page.
type CategoryStock struct {
	Name  string
	Items []StockItem
}

// SalesRow is the all-time purchased quantity of one product.
type SalesRow struct {
	ProductName string
	Total       int
}

// summary computes both report aggregates fresh on every request.
func summary(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	var stock []stockRow
	if err := db.DB.Model(&models.Product{}).
		Select("products.name AS name, products.quantity AS quantity, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Scan(&stock).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load stock summary")
	}

	sections := []CategoryStock{}
	index := map[string]int{}
	for _, row := range stock {
		i, ok := index[row.CategoryName]
		if !ok {
			i = len(sections)
			index[row.CategoryName] = i
			sections = append(sections, CategoryStock{Name: row.CategoryName})
		}
		sections[i].Items = append(sections[i].Items, StockItem{Name: row.Name, Quantity: row.Quantity})
	}

	var sales []SalesRow
	if err := db.DB.Model(&models.SalesRegister{}).
		Select("product_name, SUM(quantity_purchased) AS total").
		Group("product_name").
		Scan(&sales).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load sales summary")
	}

	return renderPage(c, sess, "summary", fiber.Map{
		"CategoryStock": sections,
		"Sales":         sales,
	})
}
