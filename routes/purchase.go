package routes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"grocermart/db"
	"grocermart/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func buySectionPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if !isLoggedIn(sess) {
		return flashRedirect(c, sess, "Wrong username or password", "danger", "/")
	}

	itemName := c.Params("item_name")
	var product models.Product
	if err := db.DB.Where("name = ?", itemName).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Product not found")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load product")
	}

	availability := "In Stock"
	if product.Quantity <= 0 {
		availability = "Out of Stock"
	}

	categoryName := "Unknown"
	var category models.Category
	if err := db.DB.First(&category, product.CategoryID).Error; err == nil {
		categoryName = category.Name
	}

	return renderPage(c, sess, "buy_section", fiber.Map{
		"ItemName":     itemName,
		"Availability": availability,
		"Price":        product.RatePerUnit,
		"Category":     categoryName,
	})
}

// buySection handles a single-item purchase. A request for more than the
// current stock flashes the purchasable maximum and mutates nothing.
func buySection(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if !isLoggedIn(sess) {
		return flashRedirect(c, sess, "Wrong username or password", "danger", "/")
	}

	itemName := c.Params("item_name")
	var product models.Product
	if err := db.DB.Where("name = ?", itemName).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Product not found")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load product")
	}

	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		return err
	}

	if product.Quantity-quantity < 0 {
		message := fmt.Sprintf("You can only buy up to %d units.", product.Quantity)
		return flashRedirect(c, sess, message, "danger", "/user_dashboard")
	}

	if err := recordSale(product, quantity); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to complete purchase")
	}

	logrus.WithFields(logrus.Fields{
		"product":  itemName,
		"quantity": quantity,
	}).Info("Purchase completed")

	return renderPage(c, sess, "confirmation", fiber.Map{"Message": "Thanks for your purchase!!"})
}

func addToCart(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	itemName := c.Params("item_name")
	var product models.Product
	if err := db.DB.Where("name = ?", itemName).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Product not found")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load product")
	}

	var category models.Category
	if err := db.DB.First(&category, product.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load category")
	}

	cart := getCart(sess)
	cart = append(cart, CartItem{Name: itemName, Price: product.RatePerUnit, Category: category.Name})
	setCart(sess, cart)

	return flashRedirect(c, sess, itemName+" added to the cart", "info", "/user_dashboard")
}

func cartPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return renderPage(c, sess, "cart", fiber.Map{"CartItems": getCart(sess)})
}

// checkout processes every quantity_<product_name> form field. Lines commit
// one by one; a line that exceeds stock flashes the purchasable maximum and
// sets the error flag, but lines already committed stay committed. An
// unknown product terminates the whole request with a 404.
func checkout(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	quantities, err := parseCheckoutForm(c)
	if err != nil {
		return err
	}

	errorFlag := false
	for name, quantity := range quantities {
		var product models.Product
		if err := db.DB.Where("name = ?", name).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).SendString("Product not found")
			}
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to load product")
		}

		if product.Quantity-quantity < 0 {
			message := fmt.Sprintf("You can only buy up to %d units of %s. Retry", product.Quantity, product.Name)
			addFlash(sess, message, "danger")
			errorFlag = true
			continue
		}

		if err := recordSale(product, quantity); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to complete purchase")
		}

		logrus.WithFields(logrus.Fields{
			"product":  name,
			"quantity": quantity,
		}).Info("Checkout line completed")
	}

	if errorFlag {
		// Keep the cart so the customer can retry the failed lines.
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/cart")
	}

	setCart(sess, nil)
	return renderPage(c, sess, "confirmation", fiber.Map{"Message": "Thanks for your purchase!!"})
}

// parseCheckoutForm collects the quantity_<product_name> fields into a
// name → quantity map before any stock is touched.
func parseCheckoutForm(c *fiber.Ctx) (map[string]int, error) {
	quantities := make(map[string]int)
	var parseErr error
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		name, found := strings.CutPrefix(string(key), "quantity_")
		if !found || parseErr != nil {
			return
		}
		quantity, err := strconv.Atoi(string(value))
		if err != nil {
			parseErr = err
			return
		}
		quantities[name] = quantity
	})
	return quantities, parseErr
}

// recordSale decrements the product's stock and appends the sales ledger row
// inside one transaction. The stock check happened on a plain read before
// this call, so two concurrent purchases can still jointly oversell.
func recordSale(product models.Product, quantity int) error {
	tx := db.DB.Begin()
	if err := tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("quantity", gorm.Expr("quantity - ?", quantity)).Error; err != nil {
		tx.Rollback()
		return err
	}

	sale := models.SalesRegister{ProductName: product.Name, QuantityPurchased: quantity}
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	broadcastStock(product.Name, product.Quantity-quantity)
	return nil
}
