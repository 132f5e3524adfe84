package routes

import (
	"grocermart/db"
	"grocermart/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func loginPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return renderPage(c, sess, "index", fiber.Map{})
}

// login checks the submitted credentials against the users table. Passwords
// are compared in plain text, matching how they are stored.
func login(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	username := c.FormValue("username")
	password := c.FormValue("password")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil || user.Password != password {
		addFlash(sess, "Invalid username or password", "danger")
		return renderPage(c, sess, "index", fiber.Map{})
	}

	sess.Set("logged_in", true)
	sess.Set("username", user.Username)
	if err := sess.Save(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"username": user.Username}).Info("Customer logged in")
	return c.Redirect("/user_dashboard")
}

func registerPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return renderPage(c, sess, "register", fiber.Map{})
}

func register(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	username := c.FormValue("username")
	password := c.FormValue("password")
	confirmPassword := c.FormValue("confirm_password")

	// Check if the username already exists
	var existing models.User
	if err := db.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		addFlash(sess, "Username already exists. Choose another username.", "danger")
		return renderPage(c, sess, "register", fiber.Map{})
	}

	if password != confirmPassword {
		addFlash(sess, "Password doesn't match with confirm password, Retry!!!", "danger")
		return renderPage(c, sess, "register", fiber.Map{})
	}

	user := models.User{Username: username, Password: password, UserType: "Customer"}
	if err := db.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create user")
	}

	logrus.WithFields(logrus.Fields{"username": username}).Info("Customer registered")
	return flashRedirect(c, sess, "Successfully registered! You can now login.", "success", "/")
}

func managerLoginPage(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return renderPage(c, sess, "manager_login", fiber.Map{})
}

// managerLogin is the customer login with an extra user_type check. A
// successful manager session carries only the logged_in marker.
func managerLogin(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}

	username := c.FormValue("username")
	password := c.FormValue("password")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil ||
		user.Password != password || user.UserType != "manager" {
		addFlash(sess, "Invalid username or password", "error")
		return renderPage(c, sess, "index", fiber.Map{})
	}

	sess.Set("logged_in", true)
	if err := sess.Save(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"username": user.Username}).Info("Manager logged in")
	return c.Redirect("/manager_dashboard")
}

func logoutUser(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/")
}

func logoutManager(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/manager_login")
}

func profile(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	username, ok := sess.Get("username").(string)
	if !ok || username == "" {
		return c.Redirect("/")
	}
	return renderPage(c, sess, "profile", fiber.Map{"CurrentUsername": username})
}

func updateProfile(c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if !isLoggedIn(sess) {
		return c.Redirect("/")
	}

	newUsername := c.FormValue("username")
	newPassword := c.FormValue("password")
	confirmPassword := c.FormValue("confirm_password")

	if newPassword != confirmPassword {
		return flashRedirect(c, sess, "Passwords do not match!", "danger", "/profile")
	}

	currentUsername, _ := sess.Get("username").(string)
	var user models.User
	if err := db.DB.Where("username = ?", currentUsername).First(&user).Error; err != nil {
		return flashRedirect(c, sess, "Error updating profile", "error", "/profile")
	}

	user.Username = newUsername
	user.Password = newPassword
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to update profile")
	}

	sess.Set("username", newUsername)
	logrus.WithFields(logrus.Fields{"username": newUsername}).Info("Profile updated")
	return flashRedirect(c, sess, "Profile updated successfully!", "success", "/profile")
}
