package routes

import (
	"errors"
	"strconv"
	"time"

	"grocermart/db"
	"grocermart/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProductForm carries the raw add-product fields. Numbers and dates stay
// strings here; they are parsed only after the required check passes.
type ProductForm struct {
	Name              string `validate:"required"`
	Unit              string `validate:"required"`
	Rate              string `validate:"required"`
	Quantity          string `validate:"required"`
	ManufacturingDate string `validate:"required"`
	ExpiryDate        string `validate:"required"`
}

// managerDashboard lists every category with its products. A POST with a
// new_category field also creates that category inline.
func managerDashboard(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if !isLoggedIn(sess) {
		return flashRedirect(c, sess, "Please enter valid username or password.", "danger", "/manager_login")
	}

	if c.Method() == fiber.MethodPost {
		name := c.FormValue("new_category")
		if name != "" {
			var existing models.Category
			err := db.DB.Where("name = ?", name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.DB.Create(&models.Category{Name: name}).Error; err != nil {
					return c.Status(fiber.StatusInternalServerError).SendString("Failed to create category")
				}
				addFlash(sess, "Category added successfully.", "success")
			} else {
				addFlash(sess, "Category already exists.", "error")
			}
		}
	}

	var categories []models.Category
	if err := db.DB.Preload("Products").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load categories")
	}

	sections := make([]CategorySection, 0, len(categories))
	for _, category := range categories {
		sections = append(sections, CategorySection{Name: category.Name, Products: category.Products})
	}

	return renderPage(c, sess, "manager_dashboard", fiber.Map{"Categories": sections})
}

func addCategory(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	name := c.FormValue("new_category")
	var existing models.Category
	exists := db.DB.Where("name = ?", name).First(&existing).Error == nil

	if name == "" || exists {
		return flashRedirect(c, sess, "Category already exists or input was invalid.", "error", "/manager_dashboard")
	}

	if err := db.DB.Create(&models.Category{Name: name}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create category")
	}

	logrus.WithFields(logrus.Fields{"category": name}).Info("Category added")
	return flashRedirect(c, sess, "Category added successfully.", "success", "/manager_dashboard")
}

func addProductPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return renderPage(c, sess, "add_product", fiber.Map{"Category": c.Params("category")})
}

func addProduct(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	categoryName := c.Params("category")

	form := ProductForm{
		Name:              c.FormValue("product_name"),
		Unit:              c.FormValue("unit"),
		Rate:              c.FormValue("rate"),
		Quantity:          c.FormValue("quantity"),
		ManufacturingDate: c.FormValue("manufacturing_date"),
		ExpiryDate:        c.FormValue("expiry_date"),
	}
	if err := validate.Struct(&form); err != nil {
		addFlash(sess, "All fields are required!", "danger")
		return renderPage(c, sess, "add_product", fiber.Map{"Category": categoryName})
	}

	var category models.Category
	if err := db.DB.Where("name = ?", categoryName).First(&category).Error; err != nil {
		return flashRedirect(c, sess, "Category does not exist.", "error", "/manager_dashboard")
	}

	rate, err := strconv.ParseFloat(form.Rate, 64)
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(form.Quantity)
	if err != nil {
		return err
	}
	manufactured, err := time.Parse("2006-01-02", form.ManufacturingDate)
	if err != nil {
		return err
	}
	expiry, err := time.Parse("2006-01-02", form.ExpiryDate)
	if err != nil {
		return err
	}

	product := models.Product{
		Name:              form.Name,
		Unit:              form.Unit,
		RatePerUnit:       rate,
		Quantity:          quantity,
		CategoryID:        category.ID,
		ManufacturingDate: manufactured,
		ExpiryDate:        expiry,
	}
	if err := db.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create product")
	}

	logrus.WithFields(logrus.Fields{
		"product":  product.Name,
		"category": categoryName,
	}).Info("Product added")
	return flashRedirect(c, sess, "Product added successfully.", "success", "/manager_dashboard")
}

func editProductPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := db.DB.First(&product, c.Params("product_id")).Error; err != nil {
		return flashRedirect(c, sess, "Product not found.", "message", "/manager_dashboard")
	}
	return renderPage(c, sess, "edit_product", fiber.Map{"Product": product})
}

// editProduct overwrites every field from the form. Dates are re-parsed
// first (a malformed date is a fatal request error), then the non-empty
// check runs; a failed check flashes without persisting anything.
func editProduct(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := db.DB.First(&product, c.Params("product_id")).Error; err != nil {
		return flashRedirect(c, sess, "Product not found.", "message", "/manager_dashboard")
	}

	rateStr := c.FormValue("Rate")
	quantityStr := c.FormValue("Quantity")

	manufactured, err := time.Parse("2006-01-02", c.FormValue("Manufacturing_Date"))
	if err != nil {
		return err
	}
	expiry, err := time.Parse("2006-01-02", c.FormValue("Expiry_Date"))
	if err != nil {
		return err
	}

	// Overwrite the loaded product before validating; a failed check leaves
	// the in-memory copy inconsistent but never reaches the database.
	product.Name = c.FormValue("product_name")
	product.Unit = c.FormValue("Unit")
	product.ManufacturingDate = manufactured
	product.ExpiryDate = expiry

	if product.Name == "" || product.Unit == "" || rateStr == "" || quantityStr == "" {
		addFlash(sess, "All fields are required!", "danger")
		return renderPage(c, sess, "edit_product", fiber.Map{"Product": product})
	}

	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		return err
	}

	product.RatePerUnit = rate
	product.Quantity = quantity

	if err := db.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update product")
	}

	logrus.WithFields(logrus.Fields{"product": product.Name}).Info("Product updated")
	return flashRedirect(c, sess, "Product updated successfully.", "success", "/manager_dashboard")
}

func deleteProductPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := db.DB.First(&product, c.Params("product_id")).Error; err != nil {
		return flashRedirect(c, sess, "Product not found.", "message", "/manager_dashboard")
	}
	return renderPage(c, sess, "confirm_delete", fiber.Map{"Product": product})
}

func deleteProduct(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := db.DB.First(&product, c.Params("product_id")).Error; err != nil {
		return flashRedirect(c, sess, "Product not found.", "message", "/manager_dashboard")
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete product")
	}

	logrus.WithFields(logrus.Fields{"product": product.Name}).Info("Product deleted")
	return flashRedirect(c, sess, "Product deleted successfully.", "success", "/manager_dashboard")
}

func updateCategoryPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return renderPage(c, sess, "manager_dashboard", fiber.Map{"Categories": []CategorySection{}})
}

// updateCategory renames a category looked up by its old name.
func updateCategory(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	newName := c.FormValue("updated_category_name")
	var category models.Category
	if err := db.DB.Where("name = ?", c.Params("category")).First(&category).Error; err == nil {
		category.Name = newName
		if err := db.DB.Save(&category).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to update category")
		}
		return flashRedirect(c, sess, "Category name updated successfully.", "success", "/manager_dashboard")
	}

	return renderPage(c, sess, "manager_dashboard", fiber.Map{"Categories": []CategorySection{}})
}

// deleteCategory removes the category's products and then the category
// itself, both in the same request.
func deleteCategory(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := db.DB.Where("name = ?", c.Params("category")).First(&category).Error; err != nil {
		return flashRedirect(c, sess, "Category not found", "error", "/manager_dashboard")
	}

	if err := db.DB.Where("category_id = ?", category.ID).Delete(&models.Product{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete products")
	}
	if err := db.DB.Delete(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete category")
	}

	logrus.WithFields(logrus.Fields{"category": category.Name}).Info("Category deleted with its products")
	return flashRedirect(c, sess, "Category and associated products have been deleted", "success", "/manager_dashboard")
}
